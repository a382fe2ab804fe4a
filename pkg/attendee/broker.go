package attendee

import (
	"sync"
	"time"
)

// CheckIn is published to the door staff of an event every time a ticket is verified.
type CheckIn struct {
	AttendeeID  uint      `json:"attendeeId"`
	EventID     uint      `json:"eventId"`
	UserID      uint      `json:"userId"`
	CheckInTime time.Time `json:"checkInTime"`
}

func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[uint]map[uint]chan CheckIn),
	}
}

// Broker fans out check-ins to the subscribers of each event. Slow subscribers miss check-ins
// rather than blocking verification.
type Broker struct {
	lock        sync.Mutex
	next        uint
	subscribers map[uint]map[uint]chan CheckIn
}

// Subscribe returns the subscription id and the channel check-ins of the event are delivered on.
func (b *Broker) Subscribe(eventID uint) (uint, <-chan CheckIn) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.next++
	channel := make(chan CheckIn, 16)
	if b.subscribers[eventID] == nil {
		b.subscribers[eventID] = make(map[uint]chan CheckIn)
	}
	b.subscribers[eventID][b.next] = channel
	return b.next, channel
}

// Unsubscribe closes the subscription channel. Unsubscribing twice is a no-op.
func (b *Broker) Unsubscribe(eventID, id uint) {
	b.lock.Lock()
	defer b.lock.Unlock()

	channel, ok := b.subscribers[eventID][id]
	if !ok {
		return
	}
	close(channel)
	delete(b.subscribers[eventID], id)
	if len(b.subscribers[eventID]) == 0 {
		delete(b.subscribers, eventID)
	}
}

// Publish delivers the check-in to every subscriber of its event with room in their buffer and
// returns the number of subscribers reached.
func (b *Broker) Publish(checkIn CheckIn) int {
	b.lock.Lock()
	defer b.lock.Unlock()

	delivered := 0
	for _, channel := range b.subscribers[checkIn.EventID] {
		select {
		case channel <- checkIn:
			delivered++
		default:
		}
	}
	return delivered
}

func (b *Broker) Subscribers(eventID uint) int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.subscribers[eventID])
}
