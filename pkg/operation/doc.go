// Package operation models CacheOperation (§3): the immutable, normalized
// descriptor for a single cached method that whatever binding layer the
// caller uses (annotation processor, decorator, code-gen) must produce
// before the engine will touch a key. The engine never inspects an
// expression or a method handle itself — §9's ExpressionEvaluator and the
// origin Loader are separate consumed contracts — it only reads the flags
// and numbers this descriptor carries.
//
// Built through functional options over an unexported struct, exactly the
// xcache.LoaderOptions / xkeylock.Option convention, with the same
// fail-fast validate() called eagerly at construction (never at read time),
// matching spec §7's ConfigurationInvalid error kind.
package operation
