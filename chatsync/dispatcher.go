package chatsync

// Dispatcher routes server-pushed events to registered callbacks.
// Handlers are registered once, before the connection starts reading;
// the dispatch table stays fixed for the connection's lifetime.
type Dispatcher struct {
	onLoggedIn         func()
	onNewConnection    func()
	onConnectionClosed func()
	onMessage          func(Message)
	onError            func(error)
}

func (d *Dispatcher) SetOnLoggedIn(fn func())         { d.onLoggedIn = fn }
func (d *Dispatcher) SetOnNewConnection(fn func())    { d.onNewConnection = fn }
func (d *Dispatcher) SetOnConnectionClosed(fn func()) { d.onConnectionClosed = fn }
func (d *Dispatcher) SetOnMessage(fn func(Message))   { d.onMessage = fn }
func (d *Dispatcher) SetOnError(fn func(error))       { d.onError = fn }

// Dispatch routes one server push to its handler. Unknown events are
// ignored so servers can grow the protocol without breaking clients.
func (d *Dispatcher) Dispatch(p Push) {
	switch p.Event {
	case eventLoggedIn:
		if d.onLoggedIn != nil {
			d.onLoggedIn()
		}
	case eventNewConnection:
		if d.onNewConnection != nil {
			d.onNewConnection()
		}
	case eventConnectionClosed:
		if d.onConnectionClosed != nil {
			d.onConnectionClosed()
		}
	case eventMessage:
		if d.onMessage == nil {
			return
		}
		var m Message
		if err := UnmarshalData(p.Data, &m); err != nil {
			d.fireError(WrapError(ErrorSerialization, "failed to unmarshal message event", err))
			return
		}
		d.onMessage(m)
	}
}

func (d *Dispatcher) fireError(err error) {
	if d.onError != nil && err != nil {
		d.onError(err)
	}
}
