package repository

// CounterRepository define el puerto del contador de numeración.
//
// Increment es la única primitiva: incrementa el contador de la clave en 1 de
// forma atómica y devuelve el valor resultante. En el primer uso de una clave
// el contador nace en 0 antes de incrementar, así el primer valor asignado es
// 1. Debe ser seguro ante llamadores concurrentes ilimitados sin lock externo;
// ningún otro camino de código escribe el contador, y nunca decrementa.
type CounterRepository interface {
	Increment(key string) (int64, error)
}
