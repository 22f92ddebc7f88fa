package service

import (
	"github.com/gui-benedito/go-secret-vault/internal/crypto"
	"github.com/gui-benedito/go-secret-vault/internal/logger"
	"github.com/gui-benedito/go-secret-vault/internal/store"
	"github.com/gui-benedito/go-secret-vault/internal/validators"
)

// Services bundles every engine service behind one wiring point. The crypto
// services are constructed here, once per process, and shared by reference.
type Services struct {
	MasterKeyService MasterKeyService
	VaultService     VaultService
	BackupService    BackupService
	PasswordService  PasswordService
}

func NewServices(repos *store.Repositories, logger *logger.Logger) *Services {
	keys := crypto.NewKeyDerivationService()
	cipher := crypto.NewCipherService()
	authenticator := crypto.NewMasterSecretAuthenticator(keys)

	masterKey := NewMasterKeyService(keys, authenticator, repos.MasterKeys, logger)

	return &Services{
		MasterKeyService: masterKey,
		VaultService: NewVaultService(
			keys,
			cipher,
			masterKey,
			repos.Secrets,
			repos.Versions,
			validators.NewSecretValidator(),
			logger,
		),
		BackupService:   NewBackupService(masterKey, repos.Users, repos.Secrets, repos.Versions, logger),
		PasswordService: NewPasswordService(logger),
	}
}
