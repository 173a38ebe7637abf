package event

import "context"

// QueryListener is implemented by behaviors that adjust queries before they run.
type QueryListener interface {
	OnBeforeQuery(ctx context.Context, event *Event[*BeforeQuery]) error
}

// PersistListener is implemented by behaviors reacting to writes.
type PersistListener interface {
	OnAfterPersist(ctx context.Context, event *Event[*AfterPersist]) error
}

// QueryListenerFunc adapts a function to QueryListener.
type QueryListenerFunc func(ctx context.Context, event *Event[*BeforeQuery]) error

func (f QueryListenerFunc) OnBeforeQuery(ctx context.Context, event *Event[*BeforeQuery]) error {
	return f(ctx, event)
}

// PersistListenerFunc adapts a function to PersistListener.
type PersistListenerFunc func(ctx context.Context, event *Event[*AfterPersist]) error

func (f PersistListenerFunc) OnAfterPersist(ctx context.Context, event *Event[*AfterPersist]) error {
	return f(ctx, event)
}
