package wallets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"folio-backend/internal/models"
	"folio-backend/internal/uploads"

	"github.com/ethereum/go-ethereum/common"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrInvalidAddress     = errors.New("invalid wallet address")
	ErrWalletExists       = errors.New("wallet address already registered")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrSourceUnconfigured = errors.New("position source is not configured")
)

// PositionSource scans a wallet for DeFi positions and returns them as a
// normalized crypto holdings batch, values fully computed. Network calls
// happen here, before any merge transaction starts.
type PositionSource interface {
	Positions(ctx context.Context, address string, chains []string) ([]models.Holding, error)
}

// Service manages wallet addresses and drives position scans through the
// upload pipeline.
type Service struct {
	DB      *gorm.DB
	Source  PositionSource // optional
	Uploads *uploads.Service
}

// Add registers a wallet address to scan.
func (s *Service) Add(ctx context.Context, address, label string, chains []string) (*models.WalletAddress, error) {
	if !common.IsHexAddress(address) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, address)
	}
	if label == "" {
		return nil, errors.New("label is required")
	}
	address = common.HexToAddress(address).Hex()
	if len(chains) == 0 {
		chains = []string{"ethereum", "base", "arbitrum", "optimism", "polygon"}
	}

	wallet := models.WalletAddress{
		Address:  address,
		Label:    label,
		Chains:   datatypes.NewJSONSlice(chains),
		IsActive: true,
	}
	err := s.DB.WithContext(ctx).Create(&wallet).Error
	if err != nil {
		var existing models.WalletAddress
		if s.DB.WithContext(ctx).Where("address = ?", address).First(&existing).Error == nil {
			return nil, ErrWalletExists
		}
		return nil, err
	}
	return &wallet, nil
}

// List returns all registered wallets, newest first.
func (s *Service) List(ctx context.Context) ([]models.WalletAddress, error) {
	var wallets []models.WalletAddress
	err := s.DB.WithContext(ctx).Order("created_at desc").Find(&wallets).Error
	return wallets, err
}

// Delete removes a wallet by id.
func (s *Service) Delete(ctx context.Context, id uint) error {
	res := s.DB.WithContext(ctx).Delete(&models.WalletAddress{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// Scan fetches DeFi positions for the wallet and commits them as a crypto
// batch dated today. The scan itself runs outside the merge transaction; a
// slow or failing source never leaves a partial merge.
func (s *Service) Scan(ctx context.Context, id uint) (uploads.CommitResult, error) {
	var wallet models.WalletAddress
	if err := s.DB.WithContext(ctx).First(&wallet, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return uploads.CommitResult{}, ErrWalletNotFound
		}
		return uploads.CommitResult{}, err
	}
	if s.Source == nil {
		return uploads.CommitResult{}, ErrSourceUnconfigured
	}

	positions, err := s.Source.Positions(ctx, wallet.Address, wallet.Chains)
	if err != nil {
		return uploads.CommitResult{}, fmt.Errorf("scan %s: %w", wallet.Label, err)
	}

	res, err := s.Uploads.Commit(ctx, uploads.CommitInput{
		Date:         models.Day(time.Now().UTC()),
		CoveredTypes: []models.HoldingType{models.TypeCrypto},
		Filename:     fmt.Sprintf("crypto_scan_%s", wallet.Address[:10]),
		FileType:     "crypto",
		Holdings:     positions,
	})
	if err != nil {
		return uploads.CommitResult{}, err
	}

	now := time.Now().UTC()
	if err := s.DB.WithContext(ctx).Model(&wallet).Update("last_scanned", now).Error; err != nil {
		return res, err
	}
	return res, nil
}
