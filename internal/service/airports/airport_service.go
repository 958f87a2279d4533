package airports

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/flightdesk/internal/domain"
	"github.com/Domenick1991/flightdesk/internal/repository"
)

type AirportUseCase interface {
	List(ctx context.Context) ([]domain.Airport, error)
	Create(ctx context.Context, input AirportInput) (*domain.Airport, error)
	Update(ctx context.Context, id int64, input AirportInput) (*domain.Airport, error)
	Delete(ctx context.Context, id int64) error
}

type AirportInput struct {
	AirportCode string `json:"airport_code" binding:"required"`
	AirportName string `json:"airport_name" binding:"required"`
	City        string `json:"city" binding:"required"`
	Country     string `json:"country" binding:"required"`
}

type AirportService struct {
	repo repository.AirportRepository
}

func NewAirportService(repo repository.AirportRepository) *AirportService {
	return &AirportService{repo: repo}
}

func (s *AirportService) List(ctx context.Context) ([]domain.Airport, error) {
	return s.repo.List(ctx)
}

func (s *AirportService) Create(ctx context.Context, input AirportInput) (*domain.Airport, error) {
	airport, err := input.toDomain()
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, airport); err != nil {
		return nil, err
	}
	return airport, nil
}

func (s *AirportService) Update(ctx context.Context, id int64, input AirportInput) (*domain.Airport, error) {
	airport, err := input.toDomain()
	if err != nil {
		return nil, err
	}
	airport.ID = id
	if err := s.repo.Update(ctx, airport); err != nil {
		return nil, err
	}
	return airport, nil
}

func (s *AirportService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// toDomain trims every field and upper-cases the IATA code.
func (input AirportInput) toDomain() (*domain.Airport, error) {
	a := &domain.Airport{
		AirportCode: strings.ToUpper(strings.TrimSpace(input.AirportCode)),
		AirportName: strings.TrimSpace(input.AirportName),
		City:        strings.TrimSpace(input.City),
		Country:     strings.TrimSpace(input.Country),
	}
	if a.AirportCode == "" || a.AirportName == "" || a.City == "" || a.Country == "" {
		return nil, fmt.Errorf("%w: all airport fields are required", domain.ErrValidation)
	}
	return a, nil
}

var _ AirportUseCase = (*AirportService)(nil)
