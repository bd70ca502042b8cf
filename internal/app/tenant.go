package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neomorfeo/roomstay/internal/domain"
)

// TenantService orchestrates tenant lifecycle operations after move-in:
// move-out and eviction, with the inverse room-availability bookkeeping.
type TenantService struct {
	store      domain.Store
	dispatcher domain.Dispatcher
	tenantFSM  domain.TransitionValidator
}

// NewTenantService creates a service with the given adapters.
func NewTenantService(store domain.Store, dispatcher domain.Dispatcher, tenantFSM domain.TransitionValidator) *TenantService {
	return &TenantService{
		store:      store,
		dispatcher: dispatcher,
		tenantFSM:  tenantFSM,
	}
}

// GetByID returns a tenant by its unique identifier.
func (s *TenantService) GetByID(ctx context.Context, id string) (domain.Tenant, error) {
	return s.store.Tenants().GetByID(ctx, id)
}

// List returns tenants matching the given filter.
func (s *TenantService) List(ctx context.Context, filter domain.TenantFilter) ([]domain.Tenant, error) {
	return s.store.Tenants().List(ctx, filter)
}

// MoveOut closes an active tenancy and frees the bed. Only an active
// tenant can move out; a pending one has never moved in, so the request
// is rejected rather than silently allowed.
func (s *TenantService) MoveOut(ctx context.Context, tenantID, providerID string, when time.Time) (domain.Tenant, error) {
	return s.close(ctx, tenantID, providerID, when, domain.TenantEventMoveOut)
}

// Evict closes an active tenancy on the provider's initiative. Same
// bookkeeping as MoveOut, terminal status "evicted".
func (s *TenantService) Evict(ctx context.Context, tenantID, providerID string, when time.Time) (domain.Tenant, error) {
	return s.close(ctx, tenantID, providerID, when, domain.TenantEventEvict)
}

func (s *TenantService) close(ctx context.Context, tenantID, providerID string, when time.Time, event domain.TenantEvent) (domain.Tenant, error) {
	tenant, err := s.store.Tenants().GetByID(ctx, tenantID)
	if err != nil {
		return domain.Tenant{}, err
	}
	if tenant.ProviderID != providerID {
		return domain.Tenant{}, &domain.ForbiddenError{ActorID: providerID, Resource: "tenant " + tenantID}
	}

	next, err := s.tenantFSM.Apply(ctx, string(tenant.Status), string(event))
	if err != nil {
		return domain.Tenant{}, err
	}
	tenant.Status = domain.TenantStatus(next)
	out := when.UTC()
	tenant.MovedOutAt = &out

	err = s.store.InTx(ctx, func(uow domain.UnitOfWork) error {
		if err := uow.Tenants().Update(ctx, tenant); err != nil {
			return err
		}
		if tenant.RoomID == "" {
			return nil
		}
		// The bed is only freed when the room reference resolves; legacy
		// tenants without one still close cleanly.
		if _, err := uow.Listings().IncrementBeds(ctx, tenant.ListingID, tenant.RoomID); err != nil {
			if errors.Is(err, domain.ErrRoomNotFound) {
				slog.WarnContext(ctx, "tenant room not found on move-out",
					"tenant_id", tenant.ID,
					"room_id", tenant.RoomID,
				)
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Tenant{}, fmt.Errorf("closing tenancy: %w", err)
	}

	if err := s.dispatcher.Notify(ctx, domain.Notification{
		RecipientID: tenant.ProviderID,
		Type:        "tenant_" + string(event),
		Title:       "Tenancy closed",
		Message:     fmt.Sprintf("%s's tenancy ended (%s)", tenant.Name, event),
		Data:        map[string]string{"tenant_id": tenant.ID},
	}); err != nil {
		slog.ErrorContext(ctx, "enqueuing notification failed",
			"type", "tenant_"+string(event),
			"error", err,
		)
	}

	return tenant, nil
}
