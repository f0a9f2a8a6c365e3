package service

import (
	"context"
	"fmt"
	"time"

	"meetboard/cmd/internal/domain/entity"
)

type MeetingFinder interface {
	FindInRange(ctx context.Context, start, end time.Time) ([]*entity.Meeting, error)
}

type Conflict struct {
	Meeting      *entity.Meeting
	Participants []entity.Participant
}

type ConflictReport struct {
	HasConflict bool
	Conflicts   []Conflict
}

type ConflictDetector struct {
	meetings MeetingFinder
}

func NewConflictDetector(meetings MeetingFinder) *ConflictDetector {
	return &ConflictDetector{meetings: meetings}
}

// Check reports one entry per existing meeting that overlaps [start, end) and
// shares at least one participant with the candidate. Participants are matched
// by chat user id only, so meetings without decodable participants never conflict.
// excludeID skips the meeting being edited.
func (d *ConflictDetector) Check(ctx context.Context, start, end time.Time, participants []entity.Participant, excludeID string) (ConflictReport, error) {
	report := ConflictReport{Conflicts: []Conflict{}}

	wanted := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if p.UserID != "" {
			wanted[p.UserID] = struct{}{}
		}
	}
	if len(wanted) == 0 {
		return report, nil
	}

	existing, err := d.meetings.FindInRange(ctx, start, end)
	if err != nil {
		return report, fmt.Errorf("check conflicts: %w", err)
	}

	for _, m := range existing {
		if m.ID == excludeID && excludeID != "" {
			continue
		}
		// The provider filter is inclusive on some backends; back-to-back meetings never conflict.
		if !m.Overlaps(start, end) {
			continue
		}

		var colliding []entity.Participant
		for _, p := range m.Participants {
			if _, ok := wanted[p.UserID]; ok && p.UserID != "" {
				colliding = append(colliding, p)
			}
		}
		if len(colliding) > 0 {
			report.Conflicts = append(report.Conflicts, Conflict{Meeting: m, Participants: colliding})
		}
	}

	report.HasConflict = len(report.Conflicts) > 0
	return report, nil
}
