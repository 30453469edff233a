package relay

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"nostr-widgets/internal/types"
)

// DefaultFetchTimeout bounds a fan-out query when the caller's context has no deadline
const DefaultFetchTimeout = 1500 * time.Millisecond

// Client fans queries and publishes out across a relay set through a shared Pool
type Client struct {
	pool    *Pool
	relays  []string
	timeout time.Duration
}

// NewClient builds a client for the given default relays
func NewClient(pool *Pool, relays []string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Client{pool: pool, relays: relays, timeout: timeout}
}

// Relays returns the default relay set
func (c *Client) Relays() []string {
	return c.relays
}

// NewSubID returns a fresh REQ subscription id with a readable prefix
func NewSubID(prefix string) string {
	id := uuid.NewString()
	if prefix == "" {
		return id[:8]
	}
	return prefix + "-" + id[:8]
}

// FetchEvents queries every relay and returns deduplicated events, newest first, and
// whether all relays sent EOSE before the deadline.
func (c *Client) FetchEvents(ctx context.Context, relays []string, subID string, filter types.Filter) ([]types.Event, bool) {
	if len(relays) == 0 {
		relays = c.relays
	}
	if subID == "" {
		subID = NewSubID("q")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var wg sync.WaitGroup
	eventChan := make(chan types.Event, 256)
	eoseChan := make(chan bool, len(relays))

	for _, relayURL := range relays {
		wg.Add(1)
		go func(relayURL string) {
			defer wg.Done()
			c.fetchFromRelay(ctx, relayURL, subID, filter, eventChan, eoseChan)
		}(relayURL)
	}

	go func() {
		wg.Wait()
		close(eventChan)
		close(eoseChan)
	}()

	seenIDs := make(map[string]int)
	var events []types.Event

collect:
	for {
		select {
		case evt, ok := <-eventChan:
			if !ok {
				break collect
			}
			if idx, seen := seenIDs[evt.ID]; seen {
				events[idx].RelaysSeen = append(events[idx].RelaysSeen, evt.RelaysSeen...)
				continue
			}
			seenIDs[evt.ID] = len(events)
			events = append(events, evt)
		case <-ctx.Done():
			break collect
		}
	}

	eoseCount := 0
drain:
	for {
		select {
		case _, ok := <-eoseChan:
			if !ok {
				break drain
			}
			eoseCount++
		default:
			break drain
		}
	}

	sort.Slice(events, func(i, j int) bool {
		if events[i].CreatedAt != events[j].CreatedAt {
			return events[i].CreatedAt > events[j].CreatedAt
		}
		return events[i].ID > events[j].ID
	})

	if filter.Limit > 0 && len(events) > filter.Limit {
		events = events[:filter.Limit]
	}

	return events, eoseCount == len(relays)
}

func (c *Client) fetchFromRelay(ctx context.Context, relayURL, subID string, filter types.Filter, eventChan chan<- types.Event, eoseChan chan<- bool) {
	sub, err := c.pool.Subscribe(ctx, relayURL, subID, filter)
	if err != nil {
		slog.Debug("relay subscribe failed", "relay", relayURL, "error", err)
		return
	}
	defer c.pool.Unsubscribe(relayURL, sub)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sub.Done:
			return
		case evt := <-sub.EventChan:
			select {
			case eventChan <- evt:
			case <-ctx.Done():
				return
			}
		case <-sub.EOSEChan:
			// Flush anything buffered before EOSE
			for {
				select {
				case evt := <-sub.EventChan:
					select {
					case eventChan <- evt:
					case <-ctx.Done():
						return
					}
				default:
					eoseChan <- true
					return
				}
			}
		}
	}
}

// Publish sends evt to every relay in parallel and collects their OK responses.
// Relays that fail or time out are reported with Success=false.
func (c *Client) Publish(ctx context.Context, relays []string, evt *types.Event) []PublishResult {
	if len(relays) == 0 {
		relays = c.relays
	}

	ctx, cancel := context.WithTimeout(ctx, 2*c.timeout)
	defer cancel()

	results := make([]PublishResult, len(relays))
	var wg sync.WaitGroup
	for i, relayURL := range relays {
		wg.Add(1)
		go func(i int, relayURL string) {
			defer wg.Done()
			res, err := c.pool.Publish(ctx, relayURL, evt)
			if err != nil {
				slog.Warn("failed to publish", "relay", relayURL, "error", err)
				res = PublishResult{Relay: relayURL, EventID: evt.ID, Message: err.Error()}
			}
			results[i] = res
		}(i, relayURL)
	}
	wg.Wait()
	return results
}

// AnyAccepted reports whether at least one relay accepted the event
func AnyAccepted(results []PublishResult) bool {
	for _, r := range results {
		if r.Success {
			return true
		}
	}
	return false
}
