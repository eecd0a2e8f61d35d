package symbols

import (
	"fmt"
	"sync"

	"github.com/funvibe/jresolve/internal/config"
	"github.com/funvibe/jresolve/internal/parser"
)

// PreludeFile is the file name prelude declarations are reported under.
const PreludeFile = "<prelude>"

// preludeSource declares the library types every program sees. Method
// bodies are omitted: only signatures matter to resolution.
const preludeSource = `
public class Object {
	public Object() {}
	public boolean equals(Object obj);
	public int hashCode();
	public String toString();
	public final Class<?> getClass();
	public final void notify();
	public final void notifyAll();
	public final void wait() throws InterruptedException;
	protected Object clone() throws CloneNotSupportedException;
	protected void finalize() throws Throwable;
}
public final class Class<T> {
	public String getName();
}
public interface Serializable {}
public interface Cloneable {}
public interface Comparable<T> {
	int compareTo(T o);
}
public interface CharSequence {
	int length();
	char charAt(int index);
}
public final class String implements Serializable, Comparable<String>, CharSequence {
	public String() {}
	public String(String original) {}
	public String(char[] value) {}
	public int length();
	public char charAt(int index);
	public boolean isEmpty();
	public String concat(String str);
	public String substring(int beginIndex);
	public String toUpperCase();
	public int compareTo(String anotherString);
	public boolean equals(Object anObject);
	public int hashCode();
	public String toString();
	public static String valueOf(Object obj);
	public static String valueOf(char[] data);
	public static String valueOf(boolean b);
	public static String valueOf(char c);
	public static String valueOf(int i);
	public static String valueOf(long l);
	public static String valueOf(float f);
	public static String valueOf(double d);
	public static String format(String format, Object... args);
}
public abstract class Number implements Serializable {
	public Number() {}
	public abstract int intValue();
	public abstract long longValue();
	public abstract double doubleValue();
}
public final class Boolean implements Serializable, Comparable<Boolean> {
	public Boolean(boolean value) {}
	public boolean booleanValue();
	public static Boolean valueOf(boolean b);
	public int compareTo(Boolean b);
}
public final class Character implements Serializable, Comparable<Character> {
	public Character(char value) {}
	public char charValue();
	public static Character valueOf(char c);
	public int compareTo(Character anotherCharacter);
}
public final class Byte extends Number implements Comparable<Byte> {
	public Byte(byte value) {}
	public int intValue();
	public long longValue();
	public double doubleValue();
	public static Byte valueOf(byte b);
	public int compareTo(Byte anotherByte);
}
public final class Short extends Number implements Comparable<Short> {
	public Short(short value) {}
	public int intValue();
	public long longValue();
	public double doubleValue();
	public static Short valueOf(short s);
	public int compareTo(Short anotherShort);
}
public final class Integer extends Number implements Comparable<Integer> {
	public static final int MAX_VALUE = 2147483647;
	public Integer(int value) {}
	public Integer(String s) {}
	public int intValue();
	public long longValue();
	public double doubleValue();
	public static Integer valueOf(int i);
	public static Integer valueOf(String s);
	public static int parseInt(String s);
	public static String toString(int i);
	public int compareTo(Integer anotherInteger);
}
public final class Long extends Number implements Comparable<Long> {
	public Long(long value) {}
	public int intValue();
	public long longValue();
	public double doubleValue();
	public static Long valueOf(long l);
	public int compareTo(Long anotherLong);
}
public final class Float extends Number implements Comparable<Float> {
	public Float(float value) {}
	public int intValue();
	public long longValue();
	public double doubleValue();
	public static Float valueOf(float f);
	public int compareTo(Float anotherFloat);
}
public final class Double extends Number implements Comparable<Double> {
	public Double(double value) {}
	public int intValue();
	public long longValue();
	public double doubleValue();
	public static Double valueOf(double d);
	public int compareTo(Double anotherDouble);
}
public final class Math {
	public static int max(int a, int b);
	public static long max(long a, long b);
	public static float max(float a, float b);
	public static double max(double a, double b);
	public static int abs(int a);
	public static long abs(long a);
	public static double abs(double a);
}
public class Throwable implements Serializable {
	public Throwable() {}
	public Throwable(String message) {}
	public Throwable(String message, Throwable cause) {}
	public Throwable(Throwable cause) {}
	public String getMessage();
	public Throwable getCause();
	public void printStackTrace();
}
public class Exception extends Throwable {
	public Exception() {}
	public Exception(String message) {}
	public Exception(String message, Throwable cause) {}
	public Exception(Throwable cause) {}
}
public class RuntimeException extends Exception {
	public RuntimeException() {}
	public RuntimeException(String message) {}
	public RuntimeException(String message, Throwable cause) {}
	public RuntimeException(Throwable cause) {}
}
public class Error extends Throwable {
	public Error() {}
	public Error(String message) {}
}
public class IOException extends Exception {
	public IOException() {}
	public IOException(String message) {}
}
public class InterruptedException extends Exception {
	public InterruptedException() {}
}
public class CloneNotSupportedException extends Exception {
	public CloneNotSupportedException() {}
}
public class IllegalArgumentException extends RuntimeException {
	public IllegalArgumentException() {}
	public IllegalArgumentException(String s) {}
}
public class IllegalStateException extends RuntimeException {
	public IllegalStateException() {}
	public IllegalStateException(String s) {}
}
public class NullPointerException extends RuntimeException {
	public NullPointerException() {}
	public NullPointerException(String s) {}
}
public class UnsupportedOperationException extends RuntimeException {
	public UnsupportedOperationException() {}
}
public class PrintStream {
	public void println();
	public void println(boolean x);
	public void println(char x);
	public void println(int x);
	public void println(long x);
	public void println(float x);
	public void println(double x);
	public void println(char[] x);
	public void println(String x);
	public void println(Object x);
	public void print(String s);
	public void print(Object obj);
}
public final class System {
	public static final PrintStream out = null;
	public static final PrintStream err = null;
	public static long currentTimeMillis();
}
public interface AutoCloseable {
	void close() throws Exception;
}
public interface Runnable {
	void run();
}
public interface Callable<V> {
	V call() throws Exception;
}
public interface Supplier<T> {
	T get();
}
public interface Consumer<T> {
	void accept(T t);
	default Consumer<T> andThen(Consumer<? super T> after);
}
public interface BiConsumer<T, U> {
	void accept(T t, U u);
}
public interface Function<T, R> {
	R apply(T t);
	default <V> Function<V, R> compose(Function<? super V, ? extends T> before);
	default <V> Function<T, V> andThen(Function<? super R, ? extends V> after);
	static <T> Function<T, T> identity();
}
public interface BiFunction<T, U, R> {
	R apply(T t, U u);
}
public interface UnaryOperator<T> extends Function<T, T> {
	static <T> UnaryOperator<T> identity();
}
public interface BinaryOperator<T> extends BiFunction<T, T, T> {
}
public interface Predicate<T> {
	boolean test(T t);
	default Predicate<T> negate();
	default Predicate<T> and(Predicate<? super T> other);
}
public interface IntSupplier {
	int getAsInt();
}
public interface IntFunction<R> {
	R apply(int value);
}
public interface ToIntFunction<T> {
	int applyAsInt(T value);
}
public interface Comparator<T> {
	int compare(T o1, T o2);
	boolean equals(Object obj);
	default Comparator<T> reversed();
	static <T extends Comparable<? super T>> Comparator<T> naturalOrder();
	static <T, U extends Comparable<? super U>> Comparator<T> comparing(Function<? super T, ? extends U> keyExtractor);
}
public interface Iterator<E> {
	boolean hasNext();
	E next();
}
public interface Iterable<T> {
	Iterator<T> iterator();
	default void forEach(Consumer<? super T> action);
}
public interface Collection<E> extends Iterable<E> {
	int size();
	boolean isEmpty();
	boolean contains(Object o);
	boolean add(E e);
	boolean remove(Object o);
	boolean addAll(Collection<? extends E> c);
	default boolean removeIf(Predicate<? super E> filter);
	default Stream<E> stream();
}
public interface List<E> extends Collection<E> {
	E get(int index);
	E set(int index, E element);
	void add(int index, E element);
	boolean add(E e);
	E remove(int index);
	default void sort(Comparator<? super E> c);
	default void replaceAll(UnaryOperator<E> operator);
	static <E> List<E> of();
	static <E> List<E> of(E e1);
	static <E> List<E> of(E... elements);
}
public class ArrayList<E> implements List<E>, Cloneable, Serializable {
	public ArrayList() {}
	public ArrayList(int initialCapacity) {}
	public ArrayList(Collection<? extends E> c) {}
	public int size();
	public boolean isEmpty();
	public boolean contains(Object o);
	public boolean add(E e);
	public boolean remove(Object o);
	public boolean addAll(Collection<? extends E> c);
	public Iterator<E> iterator();
	public E get(int index);
	public E set(int index, E element);
	public void add(int index, E element);
	public E remove(int index);
	public Object clone();
}
public interface Map<K, V> {
	V get(Object key);
	V put(K key, V value);
	int size();
	default V getOrDefault(Object key, V defaultValue);
	default void forEach(BiConsumer<? super K, ? super V> action);
	default V computeIfAbsent(K key, Function<? super K, ? extends V> mappingFunction);
}
public class HashMap<K, V> implements Map<K, V>, Cloneable, Serializable {
	public HashMap() {}
	public V get(Object key);
	public V put(K key, V value);
	public int size();
}
public interface Stream<T> {
	Stream<T> filter(Predicate<? super T> predicate);
	<R> Stream<R> map(Function<? super T, ? extends R> mapper);
	IntStream mapToInt(ToIntFunction<? super T> mapper);
	void forEach(Consumer<? super T> action);
	T reduce(T identity, BinaryOperator<T> accumulator);
	<A> A[] toArray(IntFunction<A[]> generator);
	static <T> Stream<T> of(T... values);
}
public interface IntStream {
	int sum();
}
public final class Collections {
	public static <T> List<T> emptyList();
	public static <T> List<T> singletonList(T o);
	public static <T extends Comparable<? super T>> void sort(List<T> list);
	public static <T> void sort(List<T> list, Comparator<? super T> c);
	public static <T> T max(Collection<? extends T> coll, Comparator<? super T> comp);
}
public final class Arrays {
	public static <T> List<T> asList(T... a);
}
`

// Singleton prelude catalog containing the library types.
var (
	preludeCatalog *Catalog
	preludeOnce    sync.Once
)

// GetPrelude returns the frozen prelude catalog shared by every program.
func GetPrelude() *Catalog {
	preludeOnce.Do(func() {
		preludeCatalog = buildPrelude()
	})
	return preludeCatalog
}

// ResetPrelude resets the prelude singleton (for testing only).
func ResetPrelude() {
	preludeOnce = sync.Once{}
	preludeCatalog = nil
}

func buildPrelude() *Catalog {
	c := newEmptyCatalog(config.DefaultOptions())
	unit, errs := parser.ParseUnit(preludeSource, parser.Origin{File: PreludeFile, Line: 1, Column: 1}, config.LangPackage)
	if len(errs) > 0 {
		panic(fmt.Sprintf("prelude: %s: %s", errs[0].Token, errs[0].Message))
	}
	for _, td := range unit.Types {
		id, _ := c.Declare(td, config.LangPackage)
		c.types[id].Prelude = true
	}
	if err := c.Freeze(); err != nil {
		panic(fmt.Sprintf("prelude: %v", err))
	}
	return c
}
