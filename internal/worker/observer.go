package worker

// Event describes one completion. Completed counts every finished item,
// failed ones included.
type Event[T any] struct {
	Completed int
	Total     int
	Active    int
	Result    Result[T]
}

// Percent is the share of the backlog completed so far.
func (e Event[T]) Percent() float64 {
	if e.Total == 0 {
		return 100
	}
	return float64(e.Completed) / float64(e.Total) * 100
}

// Observer receives dispatcher notifications. All calls come from the
// dispatcher loop, one at a time, so implementations see them in order.
type Observer[T any] interface {
	OnStart(item Item, active int)
	OnComplete(ev Event[T])
	OnDone(completed, total int)
}

// ObserverFunc adapts a completion callback to Observer.
type ObserverFunc[T any] func(ev Event[T])

func (f ObserverFunc[T]) OnStart(Item, int) {}

func (f ObserverFunc[T]) OnComplete(ev Event[T]) { f(ev) }

func (f ObserverFunc[T]) OnDone(int, int) {}

type nopObserver[T any] struct{}

func (nopObserver[T]) OnStart(Item, int) {}
func (nopObserver[T]) OnComplete(Event[T]) {}
func (nopObserver[T]) OnDone(int, int) {}

// Observers fans every notification out to each observer in order.
type Observers[T any] []Observer[T]

func (o Observers[T]) OnStart(item Item, active int) {
	for _, obs := range o {
		obs.OnStart(item, active)
	}
}

func (o Observers[T]) OnComplete(ev Event[T]) {
	for _, obs := range o {
		obs.OnComplete(ev)
	}
}

func (o Observers[T]) OnDone(completed, total int) {
	for _, obs := range o {
		obs.OnDone(completed, total)
	}
}
