package game

//go:generate go run go.uber.org/mock/mockgen -source=messenger.go -destination=../../mocks/mock_messenger.go -package=mocks

// Messenger delivers events to connections. Implementations must not block:
// delivery is fire-and-forget from the game's point of view.
type Messenger interface {
	// SendToConnection delivers evt to a single connection.
	SendToConnection(connectionID string, evt Event)
	// SendToGroup delivers evt to every connection in groupID.
	SendToGroup(groupID string, evt Event)
	// AddToGroup adds a connection to a group, creating the group if needed.
	AddToGroup(connectionID, groupID string)
	// RemoveGroup forgets a group and its membership.
	RemoveGroup(groupID string)
}
