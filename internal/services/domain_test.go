package services

import (
	"context"
	"testing"

	"societyattendance/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("super admin creates", func(t *testing.T) {
		svc := NewDomainService(newFakeDomainRepo(), newFakeUserRepo(), newFakeEventRepo())
		dom, err := svc.Create(ctx, superAdmin("super-1"), "  Tech  ")
		require.NoError(t, err)
		assert.Equal(t, "Tech", dom.Name)
		assert.NotEmpty(t, dom.ID)
	})

	t.Run("admin denied", func(t *testing.T) {
		svc := NewDomainService(newFakeDomainRepo(), newFakeUserRepo(), newFakeEventRepo())
		_, err := svc.Create(ctx, admin("admin-1", strPtr("domain-1")), "Tech")
		require.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("duplicate name", func(t *testing.T) {
		domainRepo := newFakeDomainRepo()
		svc := NewDomainService(domainRepo, newFakeUserRepo(), newFakeEventRepo())
		_, err := svc.Create(ctx, superAdmin("super-1"), "Tech")
		require.NoError(t, err)
		_, err = svc.Create(ctx, superAdmin("super-1"), "Tech")
		require.ErrorIs(t, err, domain.ErrDuplicateDomain)
	})

	t.Run("blank name", func(t *testing.T) {
		svc := NewDomainService(newFakeDomainRepo(), newFakeUserRepo(), newFakeEventRepo())
		_, err := svc.Create(ctx, superAdmin("super-1"), "   ")
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestDomainService_GetDetail(t *testing.T) {
	ctx := context.Background()
	domainRepo := newFakeDomainRepo()
	domainRepo.add(&domain.Domain{ID: "domain-1", Name: "Tech"})
	userRepo := newFakeUserRepo()
	userRepo.add(member("user-1", strPtr("domain-1")))
	userRepo.add(admin("admin-1", strPtr("domain-1")))
	userRepo.add(member("user-2", strPtr("domain-2")))
	eventRepo := newFakeEventRepo()
	eventRepo.add(&domain.Event{ID: "event-1", DomainID: strPtr("domain-1"), Status: domain.EventOpen})
	eventRepo.add(&domain.Event{ID: "event-2", DomainID: strPtr("domain-1"), Status: domain.EventClosed})
	svc := NewDomainService(domainRepo, userRepo, eventRepo)

	detail, err := svc.GetDetail(ctx, "domain-1")
	require.NoError(t, err)
	assert.Equal(t, "Tech", detail.Domain.Name)
	assert.Len(t, detail.Users, 2)
	assert.Len(t, detail.Events, 2)
	assert.Equal(t, 2, detail.Stats.TotalUsers)
	assert.Equal(t, 1, detail.Stats.Admins)
	assert.Equal(t, 1, detail.Stats.Members)
	assert.Equal(t, 1, detail.Stats.OpenEvents)
	assert.Equal(t, 1, detail.Stats.ClosedEvents)
}

func TestDomainService_Delete(t *testing.T) {
	ctx := context.Background()

	newSvc := func() (domain.DomainService, *fakeDomainRepo) {
		domainRepo := newFakeDomainRepo()
		domainRepo.add(&domain.Domain{ID: "domain-1", Name: "Tech"})
		return NewDomainService(domainRepo, newFakeUserRepo(), newFakeEventRepo()), domainRepo
	}

	t.Run("empty domain deleted", func(t *testing.T) {
		svc, domainRepo := newSvc()
		require.NoError(t, svc.Delete(ctx, superAdmin("super-1"), "domain-1"))
		assert.Equal(t, []string{"domain-1"}, domainRepo.deleted)
	})

	t.Run("domain with users rejected", func(t *testing.T) {
		svc, domainRepo := newSvc()
		domainRepo.owned["domain-1"] = [2]int{3, 0}
		err := svc.Delete(ctx, superAdmin("super-1"), "domain-1")
		require.ErrorIs(t, err, domain.ErrDomainNotEmpty)
		assert.Empty(t, domainRepo.deleted)
	})

	t.Run("domain with events rejected", func(t *testing.T) {
		svc, domainRepo := newSvc()
		domainRepo.owned["domain-1"] = [2]int{0, 2}
		require.ErrorIs(t, svc.Delete(ctx, superAdmin("super-1"), "domain-1"), domain.ErrDomainNotEmpty)
	})

	t.Run("admin denied", func(t *testing.T) {
		svc, _ := newSvc()
		require.ErrorIs(t, svc.Delete(ctx, admin("admin-1", strPtr("domain-1")), "domain-1"), domain.ErrForbidden)
	})

	t.Run("missing domain", func(t *testing.T) {
		svc, _ := newSvc()
		require.ErrorIs(t, svc.Delete(ctx, superAdmin("super-1"), "ghost"), domain.ErrDomainNotFound)
	})
}
