package models

// Message is one entry in the append-only log of a pairwise channel
type Message struct {
	ChannelID string `dynamodbav:"channelId" json:"channelId"` // ✅ Partition Key
	SortKey   string `dynamodbav:"sortKey" json:"sortKey"`     // ✅ Sort Key: "<19-digit nanos>#<messageId>"
	MessageID string `dynamodbav:"messageId" json:"messageId"`
	Sender    string `dynamodbav:"sender" json:"sender"`
	Text      string `dynamodbav:"text" json:"text"`
	Timestamp int64  `dynamodbav:"timestamp" json:"timestamp"` // Unix milliseconds, server observed
	Read      bool   `dynamodbav:"read" json:"read"`           // Never set by the server
}

// MessagesTable is the DynamoDB table name for channel messages
const MessagesTable = "Messages"
