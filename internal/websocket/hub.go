package websocket

import "log/slog"

// LibrariansGroup receives staff-facing events such as new reservation
// requests, regardless of which librarian is connected.
const LibrariansGroup = "librarians"

type userEvent struct {
	userID string
	raw    []byte
}

type groupEvent struct {
	group string
	raw   []byte
}

// Hub tracks active connections and routes events to them. A user may hold
// several connections at once (multiple tabs); each gets its own Client.
// All map access happens on the Run goroutine.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	toUser     chan userEvent
	toGroup    chan groupEvent
	byUser     map[string]map[*Client]struct{}
	groups     map[string]map[*Client]struct{}
	logger     *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		toUser:     make(chan userEvent, 64),
		toGroup:    make(chan groupEvent, 64),
		byUser:     make(map[string]map[*Client]struct{}),
		groups:     make(map[string]map[*Client]struct{}),
		logger:     logger,
	}
}

// Run owns the connection maps and must be started exactly once. It runs for
// the life of the process; client connections die with the HTTP server.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case ev := <-h.toUser:
			h.fanOut(h.byUser[ev.userID], ev.raw)
		case ev := <-h.toGroup:
			h.fanOut(h.groups[ev.group], ev.raw)
		}
	}
}

func (h *Hub) add(client *Client) {
	if h.byUser[client.userID] == nil {
		h.byUser[client.userID] = make(map[*Client]struct{})
	}
	h.byUser[client.userID][client] = struct{}{}
	for _, g := range client.groups {
		if h.groups[g] == nil {
			h.groups[g] = make(map[*Client]struct{})
		}
		h.groups[g][client] = struct{}{}
	}
	h.logger.Debug("websocket client connected", "user_id", client.userID, "groups", client.groups)
}

func (h *Hub) remove(client *Client) {
	clients, ok := h.byUser[client.userID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.byUser, client.userID)
	}
	for _, g := range client.groups {
		if members, ok := h.groups[g]; ok {
			delete(members, client)
			if len(members) == 0 {
				delete(h.groups, g)
			}
		}
	}
}

// fanOut delivers to each client without blocking: clients whose send buffer
// is full are disconnected rather than stalling the hub.
func (h *Hub) fanOut(clients map[*Client]struct{}, raw []byte) {
	for client := range clients {
		select {
		case client.send <- raw:
		default:
			h.remove(client)
		}
	}
}

// SendToUser pushes an event to every connection the user holds. Delivery is
// best effort; events for users with no open connection are discarded.
func (h *Hub) SendToUser(userID string, event Event) {
	h.toUser <- userEvent{userID: userID, raw: event.Encode()}
}

// SendToGroup pushes an event to every member of the named group.
func (h *Hub) SendToGroup(group string, event Event) {
	h.toGroup <- groupEvent{group: group, raw: event.Encode()}
}
