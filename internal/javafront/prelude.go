package javafront

// PreludeLabel is the label of the scope holding implicitly imported names.
const PreludeLabel = "java.lang"

// DefaultPrelude lists the java.lang classes visible in every compilation unit.
var DefaultPrelude = []string{
	"Boolean", "Byte", "Character", "Class", "Double", "Enum", "Error",
	"Exception", "Float", "IllegalArgumentException", "IllegalStateException",
	"Integer", "Iterable", "Long", "Math", "NullPointerException", "Number",
	"Object", "Runnable", "RuntimeException", "Short", "String",
	"StringBuilder", "System", "Thread", "Throwable", "Void",
}

// objectMethods are the members every class inherits from java.lang.Object,
// as name and return type. They live in the prelude scope so unqualified
// calls like toString() resolve in any class body.
var objectMethods = [...]struct{ name, typ string }{
	{"clone", "Object"},
	{"equals", "boolean"},
	{"finalize", "void"},
	{"getClass", "Class<?>"},
	{"hashCode", "int"},
	{"notify", "void"},
	{"notifyAll", "void"},
	{"toString", "String"},
	{"wait", "void"},
}
