package simulator

// Monitor receives progress and match events from a run. Methods are called
// from a single goroutine, never concurrently, and should return quickly:
// a slow monitor eventually stalls the workers.
type Monitor interface {
	// OnProgress is called with a completion percentage in [0,100]. Values
	// never decrease and a run that completes ends with 100.
	OnProgress(percent int)
	// OnMatchFound is called once for every successful match.
	OnMatchFound(match MatchRecord)
}

// NopMonitor discards all events.
type NopMonitor struct{}

func (NopMonitor) OnProgress(int)           {}
func (NopMonitor) OnMatchFound(MatchRecord) {}

// EventKind identifies the payload of an Event.
type EventKind int

const (
	EventProgress EventKind = iota
	EventMatch
)

// Event is a monitor callback delivered as a value.
type Event struct {
	Kind    EventKind
	Percent int
	Match   MatchRecord
}

// ChannelMonitor forwards events to a channel. The consumer must keep
// draining the channel until the run returns.
type ChannelMonitor chan<- Event

func (c ChannelMonitor) OnProgress(percent int) {
	c <- Event{Kind: EventProgress, Percent: percent}
}

func (c ChannelMonitor) OnMatchFound(match MatchRecord) {
	c <- Event{Kind: EventMatch, Match: match}
}

// MultiMonitor fans events out to several monitors in order.
type MultiMonitor []Monitor

func (m MultiMonitor) OnProgress(percent int) {
	for _, mon := range m {
		mon.OnProgress(percent)
	}
}

func (m MultiMonitor) OnMatchFound(match MatchRecord) {
	for _, mon := range m {
		mon.OnMatchFound(match)
	}
}

var (
	_ Monitor = NopMonitor{}
	_ Monitor = ChannelMonitor(nil)
	_ Monitor = MultiMonitor(nil)
)
