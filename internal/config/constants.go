package config

// FixtureFileExt is the extension of fixture files read by the loader.
const FixtureFileExt = ".yaml"

// FixtureFileExtensions are all recognized fixture file extensions
var FixtureFileExtensions = []string{".yaml", ".yml"}

// DefaultPackage is the package of fixture types that do not name one.
const DefaultPackage = "p"

// LangPackage is the package of the prelude types.
const LangPackage = "java.lang"

// PrivateInterfaceMethodsLevel is the first source level that accepts
// private interface methods.
const PrivateInterfaceMethodsLevel = 9

// Built-in type names
const (
	ObjectTypeName           = "Object"
	StringTypeName           = "String"
	NumberTypeName           = "Number"
	CloneableTypeName        = "Cloneable"
	SerializableTypeName     = "Serializable"
	ComparableTypeName       = "Comparable"
	IterableTypeName         = "Iterable"
	ThrowableTypeName        = "Throwable"
	ExceptionTypeName        = "Exception"
	RuntimeExceptionTypeName = "RuntimeException"
	ErrorTypeName            = "Error"
	IOExceptionTypeName      = "IOException"
	ListTypeName             = "List"
)

// Functional interfaces registered in the prelude.
const (
	RunnableTypeName      = "Runnable"
	CallableTypeName      = "Callable"
	SupplierTypeName      = "Supplier"
	ConsumerTypeName      = "Consumer"
	FunctionTypeName      = "Function"
	BiFunctionTypeName    = "BiFunction"
	PredicateTypeName     = "Predicate"
	UnaryOperatorTypeName = "UnaryOperator"
	IntSupplierTypeName   = "IntSupplier"
	ComparatorTypeName    = "Comparator"
)

// ConstructorName is the member name constructors are catalogued under.
const ConstructorName = "<init>"

// ThisName and SuperName are the receiver keywords.
const (
	ThisName  = "this"
	SuperName = "super"
)

// PublicObjectMethods are the public methods of Object. An abstract
// interface method matching one of them does not count towards the
// functional interface method.
var PublicObjectMethods = []string{
	"equals", "hashCode", "toString", "getClass", "notify", "notifyAll", "wait",
}

// Boxing pairs primitive names with their wrapper classes.
var Boxing = map[string]string{
	"boolean": "Boolean",
	"byte":    "Byte",
	"short":   "Short",
	"char":    "Character",
	"int":     "Integer",
	"long":    "Long",
	"float":   "Float",
	"double":  "Double",
}
