package service

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/floristbot/internal/models"
)

// AssignFlorist adds a florist to an event as a pending request.
func (s *Service) AssignFlorist(ctx context.Context, eventID, floristID string) (*models.Event, error) {
	event, err := s.requireEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	florist, err := s.requireFlorist(ctx, floristID)
	if err != nil {
		return nil, err
	}
	if event.Assignment(floristID) != nil {
		return nil, fmt.Errorf("%w: %s on event %s", ErrAlreadyAssigned, florist.Name, eventID)
	}

	event.AssignedFlorists = append(event.AssignedFlorists, models.Assignment{
		FloristID: floristID,
		Status:    models.AssignmentStatusPending,
	})

	updated, err := s.Events.Update(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to assign florist %s: %w", floristID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":   eventID,
		"florist_id": floristID,
	}).Info("Florist assigned")
	return updated, nil
}

// RespondAssignment records a florist's answer. The confirmation flag always
// follows the status.
func (s *Service) RespondAssignment(ctx context.Context, eventID, floristID string, status models.AssignmentStatus) (*models.Event, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: unknown assignment status %q", ErrInvalid, status)
	}

	event, err := s.requireEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	a := event.Assignment(floristID)
	if a == nil {
		return nil, fmt.Errorf("assignment of florist %s on event %s: %w", floristID, eventID, ErrNotFound)
	}
	a.Status = status
	a.IsConfirmed = status == models.AssignmentStatusConfirmed

	updated, err := s.Events.Update(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to update assignment of florist %s: %w", floristID, err)
	}

	s.logger.WithFields(logrus.Fields{
		"event_id":   eventID,
		"florist_id": floristID,
		"status":     status,
	}).Info("Assignment updated")
	return updated, nil
}

// UnassignFlorist removes a florist from an event.
func (s *Service) UnassignFlorist(ctx context.Context, eventID, floristID string) (*models.Event, error) {
	event, err := s.requireEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	kept := event.AssignedFlorists[:0]
	found := false
	for _, a := range event.AssignedFlorists {
		if a.FloristID == floristID {
			found = true
			continue
		}
		kept = append(kept, a)
	}
	if !found {
		return nil, fmt.Errorf("assignment of florist %s on event %s: %w", floristID, eventID, ErrNotFound)
	}
	event.AssignedFlorists = kept

	updated, err := s.Events.Update(ctx, event)
	if err != nil {
		return nil, fmt.Errorf("failed to unassign florist %s: %w", floristID, err)
	}
	return updated, nil
}
