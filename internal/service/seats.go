package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/maasaraswatilibrary/Saraswatilibrary/internal/models"
)

// parseSeatID splits "hall1-12" into the hall id and the 1-based seat number
func parseSeatID(seatID string) (hallID string, number int, ok bool) {
	i := strings.LastIndex(seatID, "-")
	if i <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(seatID[i+1:])
	if err != nil {
		return "", 0, false
	}
	return seatID[:i], n, true
}

// seatInHalls reports whether seatID names a seat that exists in one of the halls
func seatInHalls(seatID string, halls []models.Hall) bool {
	hallID, n, ok := parseSeatID(seatID)
	if !ok || n < 1 {
		return false
	}
	for _, h := range halls {
		if h.ID == hallID {
			return n <= h.SeatCount
		}
	}
	return false
}

// checkSeat verifies the seat exists and has no active occupant other than studentID
func (s *Service) checkSeat(ctx context.Context, seatID, studentID string) error {
	halls, err := s.repo.ListHalls(ctx)
	if err != nil {
		return err
	}
	if !seatInHalls(seatID, halls) {
		return fmt.Errorf("%w: unknown seat %s", ErrInvalidInput, seatID)
	}
	students, err := s.repo.ListStudents(ctx)
	if err != nil {
		return err
	}
	for _, st := range students {
		if st.IsActive && st.AssignedSeat == seatID && st.ID != studentID {
			return fmt.Errorf("%w: %s is held by %s", ErrSeatTaken, seatID, st.RollNo)
		}
	}
	return nil
}

// AssignSeat moves an active student onto a free seat
func (s *Service) AssignSeat(ctx context.Context, studentID, seatID string) error {
	student, err := s.repo.GetStudent(ctx, studentID)
	if err != nil {
		return err
	}
	if !student.IsActive {
		return fmt.Errorf("%w: student %s is inactive", ErrInvalidInput, student.RollNo)
	}
	if err := s.checkSeat(ctx, seatID, studentID); err != nil {
		return err
	}
	if err := s.repo.AssignSeat(ctx, studentID, seatID); err != nil {
		return err
	}
	s.log.Infof("Assigned %s to seat %s", student.RollNo, seatID)
	return nil
}

// ReleaseSeat frees the student's seat
func (s *Service) ReleaseSeat(ctx context.Context, studentID string) error {
	if err := s.repo.ReleaseSeat(ctx, studentID); err != nil {
		return err
	}
	s.log.Infof("Released seat of student %s", studentID)
	return nil
}
