package response

import "servicehub/internal/domain/entities"

type WalletResponse struct {
	Balance        float64 `json:"balance"`
	PendingBalance float64 `json:"pending_balance"`
	TotalEarnings  float64 `json:"total_earnings"`
}

type ProviderResponse struct {
	ID     string         `json:"id"`
	Active bool           `json:"active"`
	Wallet WalletResponse `json:"wallet"`
}

func FromProvider(p entities.Provider) ProviderResponse {
	return ProviderResponse{
		ID:     p.ID,
		Active: p.Active,
		Wallet: WalletResponse{
			Balance:        p.Wallet.Balance,
			PendingBalance: p.Wallet.PendingBalance,
			TotalEarnings:  p.Wallet.TotalEarnings,
		},
	}
}
