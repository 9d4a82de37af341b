package repository

import (
	"context"
	"testing"
	"time"

	"studybud/internal/domain"
	"studybud/internal/testutil"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageBodies(messages []*domain.Message) []string {
	bodies := make([]string, 0, len(messages))
	for _, m := range messages {
		bodies = append(bodies, m.Body)
	}
	return bodies
}

func TestMessageRepository_CreateJoinsAuthor(t *testing.T) {
	db := testutil.NewDB(t)
	log := logger.NewNop()
	messages := NewMessageRepository(db, log)
	rooms := NewRoomRepository(db, log)
	ctx := context.Background()

	host := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	room := testutil.CreateRoom(t, db, host, nil, "Club", time.Now())

	for _, body := range []string{"hello", "again"} {
		msg := &domain.Message{ID: uuid.New(), UserID: &bob.ID, RoomID: room.ID, Body: body}
		require.NoError(t, messages.Create(ctx, msg))
	}

	participants, err := rooms.GetParticipants(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, participants, 1)
	assert.Equal(t, bob.ID, participants[0].ID)
}

func TestMessageRepository_CreateUnknownRoomFails(t *testing.T) {
	db := testutil.NewDB(t)
	messages := NewMessageRepository(db, logger.NewNop())
	ctx := context.Background()

	bob := testutil.CreateUser(t, db, "bob")
	msg := &domain.Message{ID: uuid.New(), UserID: &bob.ID, RoomID: uuid.New(), Body: "lost"}
	require.Error(t, messages.Create(ctx, msg))

	var count int64
	require.NoError(t, db.Model(&domain.Message{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMessageRepository_ListByRoomNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	messages := NewMessageRepository(db, logger.NewNop())
	ctx := context.Background()

	host := testutil.CreateUser(t, db, "alice")
	room := testutil.CreateRoom(t, db, host, nil, "Club", time.Now())
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	testutil.CreateMessage(t, db, host, room, "first", base)
	testutil.CreateMessage(t, db, host, room, "third", base.Add(2*time.Minute))
	testutil.CreateMessage(t, db, host, room, "second", base.Add(time.Minute))

	list, err := messages.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"third", "second", "first"}, messageBodies(list))
	require.NotNil(t, list[0].User)
	assert.Equal(t, "alice", list[0].User.Username)
}

func TestMessageRepository_RecentFiltersByTopic(t *testing.T) {
	db := testutil.NewDB(t)
	messages := NewMessageRepository(db, logger.NewNop())
	ctx := context.Background()

	host := testutil.CreateUser(t, db, "alice")
	python := testutil.CreateTopic(t, db, "Python")
	design := testutil.CreateTopic(t, db, "design")
	pyRoom := testutil.CreateRoom(t, db, host, python, "Py", time.Now())
	designRoom := testutil.CreateRoom(t, db, host, design, "Design", time.Now())
	bare := testutil.CreateRoom(t, db, host, nil, "No topic", time.Now())
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	testutil.CreateMessage(t, db, host, pyRoom, "py-1", base)
	testutil.CreateMessage(t, db, host, designRoom, "design-1", base.Add(time.Minute))
	testutil.CreateMessage(t, db, host, pyRoom, "py-2", base.Add(2*time.Minute))
	testutil.CreateMessage(t, db, host, bare, "bare-1", base.Add(3*time.Minute))

	all, err := messages.Recent(ctx, "", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"bare-1", "py-2", "design-1", "py-1"}, messageBodies(all))

	limited, err := messages.Recent(ctx, "", 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"bare-1", "py-2"}, messageBodies(limited))

	py, err := messages.Recent(ctx, "pyth", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"py-2", "py-1"}, messageBodies(py))
	require.NotNil(t, py[0].Room)
	require.NotNil(t, py[0].Room.Topic)
	assert.Equal(t, "Python", py[0].Room.Topic.Name)
}

func TestMessageRepository_UpdateAndDelete(t *testing.T) {
	db := testutil.NewDB(t)
	messages := NewMessageRepository(db, logger.NewNop())
	ctx := context.Background()

	host := testutil.CreateUser(t, db, "alice")
	room := testutil.CreateRoom(t, db, host, nil, "Club", time.Now())
	msg := testutil.CreateMessage(t, db, host, room, "typo", time.Now().Add(-time.Minute))

	msg.Body = "fixed"
	require.NoError(t, messages.UpdateBody(ctx, msg))

	found, err := messages.GetByID(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, "fixed", found.Body)
	require.NotNil(t, found.Room)
	assert.Equal(t, room.ID, found.Room.ID)

	require.NoError(t, messages.Delete(ctx, msg.ID))

	_, err = messages.GetByID(ctx, msg.ID)
	assert.ErrorIs(t, err, pkgerrors.ErrMessageNotFound)
	assert.ErrorIs(t, messages.Delete(ctx, msg.ID), pkgerrors.ErrMessageNotFound)
	assert.ErrorIs(t, messages.UpdateBody(ctx, msg), pkgerrors.ErrMessageNotFound)
}

func TestMessageRepository_ListByUser(t *testing.T) {
	db := testutil.NewDB(t)
	messages := NewMessageRepository(db, logger.NewNop())
	ctx := context.Background()

	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")
	room := testutil.CreateRoom(t, db, alice, nil, "Club", time.Now())
	base := time.Now().Add(-time.Hour)

	testutil.CreateMessage(t, db, alice, room, "a1", base)
	testutil.CreateMessage(t, db, bob, room, "b1", base.Add(time.Minute))
	testutil.CreateMessage(t, db, alice, room, "a2", base.Add(2*time.Minute))

	list, err := messages.ListByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a2", "a1"}, messageBodies(list))
}
