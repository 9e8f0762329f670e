package handlers

import (
	"database/sql"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/kantin-app/kantin/database/dbhelper"
	"github.com/kantin-app/kantin/models"
	"github.com/kantin-app/kantin/utils"
)

const maxUploadSize = 10 << 20 // 10 MiB

func ListMenu(w http.ResponseWriter, r *http.Request) {
	items, err := dbhelper.ListMenuItems()
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error fetching menus", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, items)
}

func GetMenu(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid menu id", err)
		return
	}

	item, err := dbhelper.GetMenuItem(id)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "menu not found", nil)
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error fetching menu", err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

// CreateMenu accepts a multipart form: name, description, price, category,
// optional available flag and optional image file.
func CreateMenu(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	if err := requireMenuFields(r.MultipartForm.Value); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	item := models.MenuItem{Available: true}
	if err := applyMenuFields(&item, r.MultipartForm.Value); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	image, err := saveMenuImage(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	item.Image = image

	if err := dbhelper.CreateMenuItem(&item); err != nil {
		logrus.Errorf("failed to create menu item: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, "error creating menu", err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "Menu created successfully",
		"menu":    item,
	})
}

// UpdateMenu overwrites the fields present in the form. The stored image
// reference is kept unless a new file is uploaded.
func UpdateMenu(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid menu id", err)
		return
	}

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid multipart form", err)
		return
	}

	item, err := dbhelper.GetMenuItem(id)
	if err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "menu not found", nil)
		return
	} else if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error fetching menu", err)
		return
	}

	if err := applyMenuFields(item, r.MultipartForm.Value); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	image, err := saveMenuImage(r)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}
	if image != "" {
		item.Image = image
	}

	if err := dbhelper.UpdateMenuItem(item); err == sql.ErrNoRows {
		utils.RespondError(w, http.StatusNotFound, "menu not found", nil)
		return
	} else if err != nil {
		logrus.Errorf("failed to update menu item %s: %v", id, err)
		utils.RespondError(w, http.StatusInternalServerError, "error updating menu", err)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Menu updated successfully",
		"menu":    item,
	})
}

// DeleteMenu removes the item permanently. Orders referencing it keep their
// captured price and quantity; their lines resolve to a null menu afterwards.
func DeleteMenu(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid menu id", err)
		return
	}

	deleted, err := dbhelper.DeleteMenuItem(id)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "error deleting menu", err)
		return
	}
	if !deleted {
		utils.RespondError(w, http.StatusNotFound, "menu not found", nil)
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]string{
		"message": "Menu deleted successfully",
	})
}

// requireMenuFields checks the fields a create must carry.
func requireMenuFields(form url.Values) error {
	for _, field := range []string{"name", "description", "price", "category"} {
		if v, ok := formValue(form, field); !ok || v == "" {
			return fmt.Errorf("%s is required", field)
		}
	}
	return nil
}

// applyMenuFields overwrites item fields from the form values present,
// validating each. Absent fields are left untouched.
func applyMenuFields(item *models.MenuItem, form url.Values) error {
	if v, ok := formValue(form, "name"); ok {
		item.Name = v
	}
	if v, ok := formValue(form, "description"); ok {
		item.Description = v
	}
	if v, ok := formValue(form, "price"); ok {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil || price < 0 {
			return fmt.Errorf("price must be a non-negative number")
		}
		item.Price = price
	}
	if v, ok := formValue(form, "category"); ok {
		category := models.Category(v)
		if !category.IsValid() {
			return fmt.Errorf("category must be one of food, drink or snack")
		}
		item.Category = category
	}
	if v, ok := formValue(form, "available"); ok {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("available must be a boolean")
		}
		item.Available = available
	}
	return nil
}

func formValue(form url.Values, key string) (string, bool) {
	vs, ok := form[key]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return vs[0], true
}

// saveMenuImage stores the optional "image" file and returns its reference,
// or "" when the form carries no file.
func saveMenuImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("image")
	if err == http.ErrMissingFile {
		return "", nil
	} else if err != nil {
		return "", fmt.Errorf("invalid image upload")
	}
	defer file.Close()

	return utils.SaveUpload(file, header)
}
