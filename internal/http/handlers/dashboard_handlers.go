package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/you/regwizard/domain"
)

// DashboardHandlers serves the post-registration account view.
type DashboardHandlers struct {
	accountRepo domain.AccountRepository
}

// NewDashboardHandlers creates new dashboard handlers
func NewDashboardHandlers(accountRepo domain.AccountRepository) *DashboardHandlers {
	return &DashboardHandlers{accountRepo: accountRepo}
}

// Me handles GET /dashboard (requires a dashboard token).
func (h *DashboardHandlers) Me(c *gin.Context) {
	accountID, exists := c.Get("account_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Account ID not found in context"})
		return
	}

	account, err := h.accountRepo.FindByID(c.Request.Context(), accountID.(uint))
	if err != nil {
		if err == domain.ErrAccountNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":             account.ID,
		"first_name":     account.FirstName,
		"last_name":      account.LastName,
		"email":          account.Email,
		"date_of_birth":  account.DateOfBirth.Format("2006-01-02"),
		"gender":         account.Gender,
		"country_code":   account.CountryCode,
		"phone_number":   account.PhoneNumber,
		"recovery_email": account.RecoveryEmail,
		"created_at":     account.CreatedAt,
	}})
}
