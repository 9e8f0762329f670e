package handlers

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kantin-app/kantin/models"
)

func menuForm() url.Values {
	return url.Values{
		"name":        {"Nasi Goreng"},
		"description": {"Fried rice with egg"},
		"price":       {"15000"},
		"category":    {"food"},
	}
}

func TestRequireMenuFields(t *testing.T) {
	assert.NoError(t, requireMenuFields(menuForm()))

	for _, field := range []string{"name", "description", "price", "category"} {
		form := menuForm()
		form.Del(field)
		err := requireMenuFields(form)
		require.Error(t, err, "missing %s", field)
		assert.Contains(t, err.Error(), field)

		form = menuForm()
		form.Set(field, "")
		assert.Error(t, requireMenuFields(form), "empty %s", field)
	}
}

func TestApplyMenuFields(t *testing.T) {
	item := models.MenuItem{Available: true}
	require.NoError(t, applyMenuFields(&item, menuForm()))

	assert.Equal(t, "Nasi Goreng", item.Name)
	assert.Equal(t, "Fried rice with egg", item.Description)
	assert.Equal(t, float64(15000), item.Price)
	assert.Equal(t, models.CategoryFood, item.Category)
	assert.True(t, item.Available, "availability defaults to true when unspecified")
	assert.Equal(t, "", item.Image)
}

func TestApplyMenuFieldsInvalidCategory(t *testing.T) {
	form := menuForm()
	form.Set("category", "dessert")

	item := models.MenuItem{Available: true}
	err := applyMenuFields(&item, form)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "category")
}

func TestApplyMenuFieldsBadPrice(t *testing.T) {
	for _, price := range []string{"-1", "free", ""} {
		form := menuForm()
		form.Set("price", price)

		item := models.MenuItem{Available: true}
		assert.Error(t, applyMenuFields(&item, form), "price %q", price)
	}
}

func TestApplyMenuFieldsPartialUpdate(t *testing.T) {
	item := models.MenuItem{
		Name:        "Es Teh",
		Description: "Iced tea",
		Price:       5000,
		Category:    models.CategoryDrink,
		Image:       "/uploads/1-es-teh.png",
		Available:   true,
	}

	form := url.Values{
		"price":     {"6000"},
		"available": {"false"},
	}
	require.NoError(t, applyMenuFields(&item, form))

	assert.Equal(t, float64(6000), item.Price)
	assert.False(t, item.Available)
	// untouched fields keep their stored values
	assert.Equal(t, "Es Teh", item.Name)
	assert.Equal(t, models.CategoryDrink, item.Category)
	assert.Equal(t, "/uploads/1-es-teh.png", item.Image)
}
