package events

const (
	userChannelPrefix = "feed:user:"
	GlobalChannel     = "feed:global"

	// SubscribePattern matches every feed channel.
	SubscribePattern = "feed:*"
)

func UserChannel(userID string) string {
	return userChannelPrefix + userID
}

// ResolveChannels lists the channels an event is delivered on: the owner's
// channel and the global feed.
func ResolveChannels(event MessageEvent) []string {
	if event.OwnerID == "" {
		return []string{GlobalChannel}
	}
	return []string{UserChannel(event.OwnerID), GlobalChannel}
}
