package feed

import (
	"log/slog"

	"github.com/google/uuid"

	"Bundespredict/internal/scoreboard"
)

// Message is pushed to every subscriber when the scoreboard changes.
type Message struct {
	Type    string             `json:"type"`
	Entries []scoreboard.Entry `json:"entries"`
}

type Subscriber struct {
	ID      string
	MsgChan chan Message
}

type Command struct {
	Command    string
	Subscriber *Subscriber
	Payload    []scoreboard.Entry
}

// Feed fans scoreboard updates out to websocket subscribers. A single
// goroutine owns the subscriber set; everything else talks to it through
// CommandChan.
type Feed struct {
	subscribers map[string]*Subscriber
	CommandChan chan Command
	done        chan struct{}
}

func NewFeed() *Feed {
	f := &Feed{
		subscribers: map[string]*Subscriber{},
		CommandChan: make(chan Command, 100),
		done:        make(chan struct{}),
	}
	go f.Listen()
	return f
}

// Listen processes commands until Stop is called.
func (f *Feed) Listen() {
	for {
		select {
		case cmd := <-f.CommandChan:
			switch cmd.Command {
			case "join":
				f.subscribers[cmd.Subscriber.ID] = cmd.Subscriber
			case "leave":
				if _, ok := f.subscribers[cmd.Subscriber.ID]; ok {
					delete(f.subscribers, cmd.Subscriber.ID)
					close(cmd.Subscriber.MsgChan)
				}
			case "publish":
				f.broadcast(Message{Type: "scoreboard", Entries: cmd.Payload})
			default:
				slog.Error("Unknown feed command", "command", cmd.Command)
			}
		case <-f.done:
			for id, s := range f.subscribers {
				close(s.MsgChan)
				delete(f.subscribers, id)
			}
			return
		}
	}
}

func (f *Feed) broadcast(msg Message) {
	for _, s := range f.subscribers {
		select {
		case s.MsgChan <- msg:
		default:
			// a slow reader only misses intermediate boards; the next publish catches it up
			slog.Warn("Dropping scoreboard update for slow subscriber", "subscriber", s.ID)
		}
	}
}

// Join registers a new subscriber. Its channel is closed after Leave or Stop,
// and straight away when the feed is already stopped.
func (f *Feed) Join() *Subscriber {
	s := &Subscriber{ID: uuid.NewString(), MsgChan: make(chan Message, 8)}
	// CommandChan is buffered, so a send can win over done; check done first
	select {
	case <-f.done:
		close(s.MsgChan)
		return s
	default:
	}
	select {
	case f.CommandChan <- Command{Command: "join", Subscriber: s}:
	case <-f.done:
		close(s.MsgChan)
	}
	return s
}

func (f *Feed) Leave(s *Subscriber) {
	select {
	case f.CommandChan <- Command{Command: "leave", Subscriber: s}:
	case <-f.done:
	}
}

// Publish sends the current scoreboard to every subscriber.
func (f *Feed) Publish(entries []scoreboard.Entry) {
	select {
	case f.CommandChan <- Command{Command: "publish", Payload: entries}:
	case <-f.done:
	}
}

func (f *Feed) Stop() {
	close(f.done)
}
