package service

import (
	"context"
	"fmt"

	"campuslink-backend/internal/domain"
	"campuslink-backend/internal/repository"
)

type eventService struct {
	store repository.Store
}

func NewEventService(store repository.Store) EventService {
	return &eventService{store: store}
}

// Create publishes a new event and fans a notice out to every active
// follower of the organizing organization.
func (s *eventService) Create(ctx context.Context, orgID int32, event *domain.Event) error {
	repos := s.store.Repos()

	org, err := repos.Organizations.GetByID(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to get organization: %w", err)
	}
	if org.Status != domain.OrgStatusActive {
		return ErrOrgNotActive
	}

	followers, err := repos.Students.ListFollowers(ctx, orgID)
	if err != nil {
		return fmt.Errorf("failed to list followers: %w", err)
	}

	event.OrgID = orgID
	event.Status = domain.EventStatusScheduled
	event.Registered = 0
	event.Participants = nil

	return s.store.Transact(ctx, func(r repository.Repos) error {
		if err := r.Events.Create(ctx, event); err != nil {
			return fmt.Errorf("failed to create event: %w", err)
		}

		var msgs []*domain.OutboxMessage
		for _, follower := range followers {
			msgs = append(msgs, &domain.OutboxMessage{
				RecipientType: domain.RecipientStudent,
				RecipientID:   follower.ID,
				Title:         "New event",
				Message:       fmt.Sprintf("%s published a new event: %s", org.Name, event.Title),
				Attributes:    map[string]string{"event_id": fmt.Sprint(event.ID)},
			})
		}
		if len(msgs) > 0 {
			if err := r.Outbox.Enqueue(ctx, msgs...); err != nil {
				return fmt.Errorf("failed to enqueue notifications: %w", err)
			}
		}

		return r.Activities.Append(ctx, &domain.Activity{
			Actor:      org.Email,
			Action:     domain.ActivityEventCreated,
			TargetType: "event",
			TargetID:   event.ID,
			Detail:     event.Title,
		})
	})
}

func (s *eventService) Get(ctx context.Context, id int32) (*domain.Event, error) {
	return s.store.Repos().Events.GetByID(ctx, id)
}

func (s *eventService) ListByOrg(ctx context.Context, orgID int32) ([]domain.Event, error) {
	return s.store.Repos().Events.ListByOrg(ctx, orgID)
}

func (s *eventService) ListUpcoming(ctx context.Context, page, pageSize int32) ([]domain.Event, error) {
	offset := (page - 1) * pageSize
	return s.store.Repos().Events.ListUpcoming(ctx, pageSize, offset)
}

// Join registers the student on both sides in one transaction; the capacity
// check lives in the event-side UPDATE.
func (s *eventService) Join(ctx context.Context, studentID, eventID int32) error {
	err := s.store.Transact(ctx, func(r repository.Repos) error {
		if err := r.Events.AddParticipant(ctx, eventID, studentID); err != nil {
			return err
		}
		if err := r.Students.AddJoinedEvent(ctx, studentID, eventID); err != nil {
			return err
		}
		event, err := r.Events.GetByID(ctx, eventID)
		if err != nil {
			return err
		}
		return r.Outbox.Enqueue(ctx, &domain.OutboxMessage{
			RecipientType: domain.RecipientOrganization,
			RecipientID:   event.OrgID,
			Title:         "New participant",
			Message:       fmt.Sprintf("A student joined your event %s.", event.Title),
			Attributes:    map[string]string{"event_id": fmt.Sprint(eventID)},
		})
	})
	return err
}

func (s *eventService) Leave(ctx context.Context, studentID, eventID int32) error {
	return s.store.Transact(ctx, func(r repository.Repos) error {
		if err := r.Events.RemoveParticipant(ctx, eventID, studentID); err != nil {
			return err
		}
		return r.Students.RemoveJoinedEvent(ctx, studentID, eventID)
	})
}
