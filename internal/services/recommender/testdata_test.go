package recommender

import (
	"testing"

	"github.com/stretchr/testify/require"

	"insurance-recommendation-engine/internal/models"
	"insurance-recommendation-engine/internal/services/catalog"
)

func intPtr(v int) *int { return &v }

func testCatalogProducts() []*models.Product {
	return []*models.Product{
		{ID: "P001", Name: "Student Health Shield", Type: models.ProductTypeHealth, Coverage: 500000, MonthlyPremium: 650, Accident: true, CoPay: 10, AgeMin: 18, AgeMax: 30},
		{ID: "P002", Name: "Generic Health Plan", Type: models.ProductTypeHealth, Coverage: 500000, MonthlyPremium: 1200, CoPay: 10, AgeMin: 18, AgeMax: 30},
		{ID: "P003", Name: "Family Floater Plus", Type: models.ProductTypeHealth, Coverage: 2000000, MonthlyPremium: 1800, CriticalIllness: true, Maternity: true, CoPay: 20, AgeMin: 25, AgeMax: 60},
		{ID: "P004", Name: "Tech Professional Secure", Type: models.ProductTypeHealth, Coverage: 3000000, MonthlyPremium: 1100, CriticalIllness: true, CoPay: 5, AgeMin: 21, AgeMax: 45},
		{ID: "P005", Name: "Senior Care Gold", Type: models.ProductTypeHealth, Coverage: 1500000, MonthlyPremium: 2400, CriticalIllness: true, CoPay: 30, AgeMin: 60, AgeMax: 80},
		{ID: "P006", Name: "Driver Accident Guard", Type: "Accident", Coverage: 1000000, MonthlyPremium: 500, Accident: true, CoPay: 0, AgeMin: 18, AgeMax: 65},
	}
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.New(testCatalogProducts())
	require.NoError(t, err)
	return c
}
