package models

import "github.com/google/uuid"

// idNamespace seeds all deterministic ids so the same tweet always maps to
// the same stored message across restarts.
var idNamespace = uuid.MustParse("f1ab32be-19a6-4bba-9f5c-5d9c6f2c3a01")

// MessageID derives the stored message id for a tweet processed by an agent.
func MessageID(tweetID, agentID string) string {
	return uuid.NewSHA1(idNamespace, []byte(tweetID+"-"+agentID)).String()
}

// RoomID derives the room id for a platform conversation.
func RoomID(conversationID string) string {
	return uuid.NewSHA1(idNamespace, []byte("room-"+conversationID)).String()
}

// UserID derives the stored user id for a platform author. The agent's own
// posts are mapped to agentID by the caller instead.
func UserID(platformUserID string) string {
	return uuid.NewSHA1(idNamespace, []byte("user-"+platformUserID)).String()
}
