package room

import (
	"context"
	"strings"
)

type CreateRequest struct {
	Name        string
	Capacity    int
	Floor       int
	Description string
	Amenities   []string
	IsAvailable *bool
}

type UpdateRequest struct {
	Name        *string
	Capacity    *int
	Floor       *int
	Description *string
	Amenities   []string
	IsAvailable *bool
}

func (r UpdateRequest) empty() bool {
	return r.Name == nil && r.Capacity == nil && r.Floor == nil &&
		r.Description == nil && r.Amenities == nil && r.IsAvailable == nil
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Room, error)
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context, filter Filter) ([]*Room, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Room, error)
	// Delete removes the room together with all of its bookings and reports
	// how many bookings went with it.
	Delete(ctx context.Context, id string) (int64, error)
	// Seed populates the default rooms when the catalog is empty.
	Seed(ctx context.Context) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// validateRoom checks the logical rules for a Room struct.
func validateRoom(r *Room) error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrNameRequired
	}
	if r.Capacity <= 0 {
		return ErrCapacityInvalid
	}
	return nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Room, error) {
	r := &Room{
		Name:        strings.TrimSpace(req.Name),
		Capacity:    req.Capacity,
		Floor:       req.Floor,
		Description: req.Description,
		Amenities:   cleanAmenities(req.Amenities),
		IsAvailable: true,
	}
	if req.IsAvailable != nil {
		r.IsAvailable = *req.IsAvailable
	}

	if err := validateRoom(r); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Room, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Room, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Room, error) {
	if req.empty() {
		return nil, ErrNothingToUpdate
	}

	r, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Apply non-nil fields
	if req.Name != nil {
		r.Name = strings.TrimSpace(*req.Name)
	}
	if req.Capacity != nil {
		r.Capacity = *req.Capacity
	}
	if req.Floor != nil {
		r.Floor = *req.Floor
	}
	if req.Description != nil {
		r.Description = *req.Description
	}
	if req.Amenities != nil {
		r.Amenities = cleanAmenities(req.Amenities)
	}
	if req.IsAvailable != nil {
		r.IsAvailable = *req.IsAvailable
	}

	if err := validateRoom(r); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *service) Delete(ctx context.Context, id string) (int64, error) {
	return s.repo.DeleteWithBookings(ctx, id)
}

func (s *service) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	return s.repo.InsertIfAbsent(ctx, DefaultRooms())
}

func cleanAmenities(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, a := range in {
		a = strings.TrimSpace(a)
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	return out
}
