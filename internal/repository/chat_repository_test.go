package repository

import (
	"context"
	"testing"
	"time"

	"iaprender_backend/internal/model"
	"iaprender_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepository_HistoryOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewChatRepository(testutil.NewDB(t))
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, &model.ChatMessage{UserID: 1, Sender: model.SenderAssistant, Text: "later", Timestamp: ts.Add(time.Second)}))
	require.NoError(t, repo.Append(ctx, &model.ChatMessage{UserID: 1, Sender: model.SenderUser, Text: "first", Timestamp: ts}))
	require.NoError(t, repo.Append(ctx, &model.ChatMessage{UserID: 1, Sender: model.SenderAssistant, Text: "second", Timestamp: ts}))
	require.NoError(t, repo.Append(ctx, &model.ChatMessage{UserID: 2, Sender: model.SenderUser, Text: "other user", Timestamp: ts}))

	msgs, err := repo.History(ctx, 1)
	require.NoError(t, err)
	texts := make([]string, 0, len(msgs))
	for _, m := range msgs {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"first", "second", "later"}, texts)
}
