package service

import (
	"context"
	"testing"

	"studybud/internal/domain"
	"studybud/internal/testutil"
	pkgerrors "studybud/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMessageService_PostJoinsRoom(t *testing.T) {
	services, db := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	room, err := services.Room.Create(ctx, alice.ID, RoomInput{Name: "Club"})
	require.NoError(t, err)
	assert.Empty(t, room.Participants)

	msg, err := services.Message.Post(ctx, room.ID, bob.ID, "  hello there  ")
	require.NoError(t, err)
	assert.Equal(t, "hello there", msg.Body)
	require.NotNil(t, msg.User)
	assert.Equal(t, "bob", msg.User.Username)

	found, err := services.Room.GetByID(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, found.Participants, 1)
	assert.Equal(t, bob.ID, found.Participants[0].ID)
	assert.Equal(t, int64(1), countAudit(t, db, domain.EventTypeMessagePosted))
}

func TestMessageService_PostValidation(t *testing.T) {
	services, db := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	room, err := services.Room.Create(ctx, alice.ID, RoomInput{Name: "Club"})
	require.NoError(t, err)

	_, err = services.Message.Post(ctx, room.ID, alice.ID, " \n\t ")
	assert.ErrorIs(t, err, pkgerrors.ErrBadRequest)

	_, err = services.Message.Post(ctx, uuid.New(), alice.ID, "into the void")
	assert.ErrorIs(t, err, pkgerrors.ErrRoomNotFound)
}

func TestMessageService_OnlyAuthorMayUpdateOrDelete(t *testing.T) {
	services, db := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	room, err := services.Room.Create(ctx, alice.ID, RoomInput{Name: "Club"})
	require.NoError(t, err)
	msg, err := services.Message.Post(ctx, room.ID, bob.ID, "bob was here")
	require.NoError(t, err)

	_, err = services.Message.Update(ctx, msg.ID, alice.ID, "alice was here")
	assert.ErrorIs(t, err, pkgerrors.ErrForbidden)
	assert.ErrorIs(t, services.Message.Delete(ctx, msg.ID, alice.ID), pkgerrors.ErrForbidden)

	updated, err := services.Message.Update(ctx, msg.ID, bob.ID, "bob is still here")
	require.NoError(t, err)
	assert.Equal(t, "bob is still here", updated.Body)

	require.NoError(t, services.Message.Delete(ctx, msg.ID, bob.ID))

	err = db.First(&domain.Message{}, "id = ?", msg.ID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestMessageService_OrphanedMessageIsReadOnly(t *testing.T) {
	services, db := newTestServices(t)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	room, err := services.Room.Create(ctx, alice.ID, RoomInput{Name: "Club"})
	require.NoError(t, err)
	msg, err := services.Message.Post(ctx, room.ID, bob.ID, "soon gone")
	require.NoError(t, err)
	require.NoError(t, services.User.DeleteMe(ctx, bob.ID))

	var kept domain.Message
	require.NoError(t, db.First(&kept, "id = ?", msg.ID).Error)
	assert.Nil(t, kept.UserID)
	assert.ErrorIs(t, services.Message.Delete(ctx, msg.ID, alice.ID), pkgerrors.ErrForbidden)
}
