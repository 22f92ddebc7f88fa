package service

import (
	"context"
	"sort"
	"sync"

	"github.com/gui-benedito/go-secret-vault/internal/store"
	"github.com/gui-benedito/go-secret-vault/models"
)

// In-memory repository fakes backing the service tests. They reproduce the
// contracts the SQL repositories promise: sentinel errors, soft-delete
// filtering, per-secret version numbering and ordering.

type fakeUserRepository struct {
	mu    sync.Mutex
	users map[int64]models.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{users: make(map[int64]models.User)}
}

func (f *fakeUserRepository) GetUser(_ context.Context, userID int64) (models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[userID]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepository) EnsureUser(_ context.Context, user models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.UserID]; !ok {
		f.users[user.UserID] = user
	}
	return nil
}

type fakeMasterKeyRepository struct {
	mu      sync.Mutex
	records map[int64]models.MasterKeyRecord
}

func newFakeMasterKeyRepository() *fakeMasterKeyRepository {
	return &fakeMasterKeyRepository{records: make(map[int64]models.MasterKeyRecord)}
}

func (f *fakeMasterKeyRepository) Get(_ context.Context, userID int64) (models.MasterKeyRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[userID]
	if !ok {
		return models.MasterKeyRecord{}, store.ErrMasterKeyNotFound
	}
	return record, nil
}

func (f *fakeMasterKeyRepository) Upsert(_ context.Context, record models.MasterKeyRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.UserID] = record
	return nil
}

type fakeSecretRepository struct {
	mu      sync.Mutex
	records map[string]models.SecretRecord
}

func newFakeSecretRepository() *fakeSecretRepository {
	return &fakeSecretRepository{records: make(map[string]models.SecretRecord)}
}

func (f *fakeSecretRepository) Create(_ context.Context, record models.SecretRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[record.ID] = record
	return nil
}

func (f *fakeSecretRepository) GetByID(_ context.Context, userID int64, secretID string) (models.SecretRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[secretID]
	if !ok || record.UserID != userID {
		return models.SecretRecord{}, store.ErrSecretNotFound
	}
	return record, nil
}

func (f *fakeSecretRepository) List(_ context.Context, userID int64, filter models.SecretFilter) ([]models.SecretRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]models.SecretRecord, 0, len(f.records))
	for _, record := range f.records {
		if record.UserID != userID {
			continue
		}
		if !filter.IncludeInactive && !record.IsActive {
			continue
		}
		if filter.Kind != "" && record.Kind != filter.Kind {
			continue
		}
		if filter.Category != "" && record.Category != filter.Category {
			continue
		}
		if filter.FavoritesOnly && !record.IsFavorite {
			continue
		}
		matched = append(matched, record)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })
	return matched, nil
}

func (f *fakeSecretRepository) UpdateEnvelope(_ context.Context, record models.SecretRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.records[record.ID]
	if !ok || existing.UserID != record.UserID {
		return store.ErrSecretNotFound
	}
	f.records[record.ID] = record
	return nil
}

func (f *fakeSecretRepository) SoftDelete(_ context.Context, userID int64, secretID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	record, ok := f.records[secretID]
	if !ok || record.UserID != userID || !record.IsActive {
		return store.ErrSecretNotFound
	}
	record.IsActive = false
	f.records[secretID] = record
	return nil
}

type fakeVersionRepository struct {
	mu       sync.Mutex
	versions []models.SecretVersion
}

func newFakeVersionRepository() *fakeVersionRepository {
	return &fakeVersionRepository{}
}

func (f *fakeVersionRepository) Append(_ context.Context, version models.SecretVersion) (models.SecretVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var max int64
	for _, existing := range f.versions {
		if existing.SecretID == version.SecretID && existing.Version > max {
			max = existing.Version
		}
	}
	version.Version = max + 1
	f.versions = append(f.versions, version)
	return version, nil
}

func (f *fakeVersionRepository) Insert(_ context.Context, version models.SecretVersion) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.versions {
		if existing.SecretID == version.SecretID && existing.Version == version.Version {
			return store.ErrVersionConflict
		}
	}
	f.versions = append(f.versions, version)
	return nil
}

func (f *fakeVersionRepository) List(_ context.Context, secretID string) ([]models.SecretVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]models.SecretVersion, 0)
	for _, version := range f.versions {
		if version.SecretID == secretID {
			matched = append(matched, version)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Version > matched[j].Version })
	return matched, nil
}

func (f *fakeVersionRepository) Get(_ context.Context, secretID string, versionNumber int64) (models.SecretVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, version := range f.versions {
		if version.SecretID == secretID && version.Version == versionNumber {
			return version, nil
		}
	}
	return models.SecretVersion{}, store.ErrVersionNotFound
}

func (f *fakeVersionRepository) ListByUser(_ context.Context, userID int64) ([]models.SecretVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]models.SecretVersion, 0)
	for _, version := range f.versions {
		if version.UserID == userID {
			matched = append(matched, version)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SecretID != matched[j].SecretID {
			return matched[i].SecretID < matched[j].SecretID
		}
		return matched[i].Version < matched[j].Version
	})
	return matched, nil
}
