package postgres

// DBObserver records latency and error class for a logical DB operation.
// Satisfied by observability.Prom.
type DBObserver interface {
	ObserveDB(op string, fn func() error) error
}

type noopObserver struct{}

func (noopObserver) ObserveDB(op string, fn func() error) error {
	return fn()
}
