package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"studybud/internal/domain"
	"studybud/internal/repository"
	pkgerrors "studybud/pkg/errors"
	"studybud/pkg/logger"

	"github.com/google/uuid"
)

const maxRoomName = 200

type RoomService interface {
	Home(ctx context.Context, query string) (*domain.Home, error)
	Search(ctx context.Context, query string) ([]*domain.Room, error)
	GetByID(ctx context.Context, roomID uuid.UUID) (*domain.Room, error)
	Detail(ctx context.Context, roomID uuid.UUID) (*domain.RoomDetail, error)
	Create(ctx context.Context, hostUserID uuid.UUID, input RoomInput) (*domain.Room, error)
	Update(ctx context.Context, roomID, userID uuid.UUID, input RoomInput) (*domain.Room, error)
	Delete(ctx context.Context, roomID, userID uuid.UUID) error
}

// RoomInput is the editable part of a room. Topic is a topic name; it is
// resolved (and created when new) on save.
type RoomInput struct {
	Topic       string
	Name        string
	Description string
}

type roomService struct {
	roomRepo        repository.RoomRepository
	messageRepo     repository.MessageRepository
	topicService    TopicService
	activityService ActivityService
	auditService    AuditService
	log             logger.Logger
}

func NewRoomService(
	roomRepo repository.RoomRepository,
	messageRepo repository.MessageRepository,
	topicService TopicService,
	activityService ActivityService,
	auditService AuditService,
	log logger.Logger,
) RoomService {
	return &roomService{
		roomRepo:        roomRepo,
		messageRepo:     messageRepo,
		topicService:    topicService,
		activityService: activityService,
		auditService:    auditService,
		log:             log,
	}
}

// Home is the landing page: matching rooms plus the topic and activity sidebars.
func (s *roomService) Home(ctx context.Context, query string) (*domain.Home, error) {
	rooms, err := s.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	topics, err := s.topicService.Top(ctx, domain.DefaultTopTopics)
	if err != nil {
		return nil, err
	}

	topicCount, err := s.topicService.Count(ctx)
	if err != nil {
		return nil, err
	}

	activity, err := s.activityService.Recent(ctx, query, DefaultActivityLimit)
	if err != nil {
		return nil, err
	}

	return &domain.Home{
		Rooms:      rooms,
		RoomCount:  len(rooms),
		Topics:     topics,
		TopicCount: topicCount,
		Activity:   activity,
	}, nil
}

// Search matches query against room name, description and topic name, ignoring case.
func (s *roomService) Search(ctx context.Context, query string) ([]*domain.Room, error) {
	return s.roomRepo.Search(ctx, query)
}

func (s *roomService) GetByID(ctx context.Context, roomID uuid.UUID) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	participants, err := s.roomRepo.GetParticipants(ctx, roomID)
	if err != nil {
		return nil, err
	}
	room.Participants = participants

	return room, nil
}

func (s *roomService) Detail(ctx context.Context, roomID uuid.UUID) (*domain.RoomDetail, error) {
	room, err := s.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}

	return &domain.RoomDetail{
		Room:         room,
		Messages:     messages,
		Participants: room.Participants,
	}, nil
}

func (s *roomService) Create(ctx context.Context, hostUserID uuid.UUID, input RoomInput) (*domain.Room, error) {
	input, err := validateRoomInput(input)
	if err != nil {
		return nil, err
	}

	topic, err := s.topicService.Resolve(ctx, input.Topic)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	room := &domain.Room{
		ID:          uuid.New(),
		HostID:      &hostUserID,
		Name:        input.Name,
		Description: input.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	setTopic(room, topic)

	if err := s.roomRepo.Create(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info("Room created", "room_id", room.ID, "host_id", hostUserID)
	s.auditService.Record(ctx, &hostUserID, domain.ActorRoleHost, &room.ID, domain.EventTypeRoomCreated, map[string]interface{}{
		"name":  room.Name,
		"topic": input.Topic,
	})

	return s.GetByID(ctx, room.ID)
}

// Update overwrites name, description and topic. Only the host may edit; a
// room whose host account is gone can no longer be edited.
func (s *roomService) Update(ctx context.Context, roomID, userID uuid.UUID, input RoomInput) (*domain.Room, error) {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	if !room.IsHostedBy(userID) {
		s.log.Warn("Room update denied", "room_id", roomID, "user_id", userID)
		return nil, fmt.Errorf("%w: only the host can edit this room", pkgerrors.ErrForbidden)
	}

	input, err = validateRoomInput(input)
	if err != nil {
		return nil, err
	}

	topic, err := s.topicService.Resolve(ctx, input.Topic)
	if err != nil {
		return nil, err
	}

	room.Name = input.Name
	room.Description = input.Description
	setTopic(room, topic)

	if err := s.roomRepo.Update(ctx, room); err != nil {
		return nil, err
	}

	s.auditService.Record(ctx, &userID, domain.ActorRoleHost, &room.ID, domain.EventTypeRoomUpdated, map[string]interface{}{
		"name":  room.Name,
		"topic": input.Topic,
	})

	return s.GetByID(ctx, room.ID)
}

func (s *roomService) Delete(ctx context.Context, roomID, userID uuid.UUID) error {
	room, err := s.roomRepo.GetByID(ctx, roomID)
	if err != nil {
		return err
	}

	if !room.IsHostedBy(userID) {
		s.log.Warn("Room delete denied", "room_id", roomID, "user_id", userID)
		return fmt.Errorf("%w: only the host can delete this room", pkgerrors.ErrForbidden)
	}

	if err := s.roomRepo.Delete(ctx, roomID); err != nil {
		return err
	}

	s.log.Info("Room deleted", "room_id", roomID, "user_id", userID)
	s.auditService.Record(ctx, &userID, domain.ActorRoleHost, &roomID, domain.EventTypeRoomDeleted, map[string]interface{}{
		"name": room.Name,
	})

	return nil
}

func validateRoomInput(input RoomInput) (RoomInput, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Topic = strings.TrimSpace(input.Topic)
	input.Description = strings.TrimSpace(input.Description)

	if input.Name == "" {
		return input, fmt.Errorf("%w: name is required", pkgerrors.ErrBadRequest)
	}
	if utf8.RuneCountInString(input.Name) > maxRoomName {
		return input, fmt.Errorf("%w: name is too long (max %d characters)", pkgerrors.ErrBadRequest, maxRoomName)
	}

	return input, nil
}

func setTopic(room *domain.Room, topic *domain.Topic) {
	room.Topic = topic
	if topic == nil {
		room.TopicID = nil
		return
	}
	room.TopicID = &topic.ID
}
