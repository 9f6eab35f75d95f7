package services

import (
	"context"
	"errors"

	apperrors "storefront-backend/common/errors"
	"storefront-backend/models"
	"storefront-backend/repository"

	"github.com/google/uuid"
)

// AddressService enforces the address-book invariants: at most
// models.MaxAddressesPerUser addresses per user and exactly one default at
// any time.
type AddressService struct {
	repo repository.AddressRepository
}

func NewAddressService(repo repository.AddressRepository) *AddressService {
	return &AddressService{repo: repo}
}

func (s *AddressService) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	return s.repo.FindByUserID(ctx, userID)
}

func (s *AddressService) Get(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindByIDAndUserID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrAddressNotFound
	}
	return address, err
}

// Create adds an address. The first address becomes default automatically;
// an explicit default request demotes every other address first.
func (s *AddressService) Create(ctx context.Context, address *models.Address) (*models.Address, error) {
	count, err := s.repo.CountByUserID(ctx, address.UserID)
	if err != nil {
		return nil, err
	}
	if count >= models.MaxAddressesPerUser {
		return nil, apperrors.ErrAddressLimit
	}

	makeDefault := count == 0 || address.IsDefault
	if makeDefault {
		if err := s.repo.UnsetDefaults(ctx, address.UserID); err != nil {
			return nil, err
		}
	}
	address.IsDefault = makeDefault
	if address.Country == "" {
		address.Country = models.DefaultCountry
	}

	if err := s.repo.Create(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// Update modifies address fields. It refuses to leave the user without a
// default: unsetting the flag on the only default address is ignored.
func (s *AddressService) Update(ctx context.Context, id, userID uuid.UUID, updated *models.Address) (*models.Address, error) {
	address, err := s.repo.FindByIDAndUserID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}

	if updated.IsDefault && !address.IsDefault {
		if err := s.repo.UnsetDefaults(ctx, userID); err != nil {
			return nil, err
		}
		address.IsDefault = true
	}

	if updated.AddressLine1 != "" {
		address.AddressLine1 = updated.AddressLine1
	}
	if updated.AddressLine2 != "" {
		address.AddressLine2 = updated.AddressLine2
	}
	if updated.City != "" {
		address.City = updated.City
	}
	if updated.State != "" {
		address.State = updated.State
	}
	if updated.PostalCode != "" {
		address.PostalCode = updated.PostalCode
	}
	if updated.Country != "" {
		address.Country = updated.Country
	}
	if updated.OptionalRemarks != "" {
		address.OptionalRemarks = updated.OptionalRemarks
	}

	if err := s.repo.Update(ctx, address); err != nil {
		return nil, err
	}
	return address, nil
}

// Delete removes an address. Deleting the default promotes the oldest
// remaining address so the one-default invariant holds.
func (s *AddressService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	address, err := s.repo.FindByIDAndUserID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrAddressNotFound
	}
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.ErrAddressNotFound
		}
		return err
	}

	if address.IsDefault {
		oldest, err := s.repo.FindOldest(ctx, userID)
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		return s.repo.SetDefault(ctx, oldest.ID)
	}
	return nil
}

// SetDefault marks one address as default, demoting the rest.
func (s *AddressService) SetDefault(ctx context.Context, id, userID uuid.UUID) (*models.Address, error) {
	address, err := s.repo.FindByIDAndUserID(ctx, id, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.ErrAddressNotFound
	}
	if err != nil {
		return nil, err
	}
	if address.IsDefault {
		return address, nil
	}

	if err := s.repo.UnsetDefaults(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.repo.SetDefault(ctx, id); err != nil {
		return nil, err
	}
	address.IsDefault = true
	return address, nil
}
