package inline

import "github.com/goliatone/go-attachedimages/pkg/render"

var messageKeys = []string{
	"select_files",
	"resize",
	"resize_width",
	"remove_hint",
	"status_ready",
	"upload",
	"install_required",
}

// DefaultCatalog holds the uploader messages shipped with the inline.
func DefaultCatalog() render.Catalog {
	return render.Catalog{
		"en": {
			"select_files":     "Select images",
			"resize":           "Resize images wider than",
			"resize_width":     "Maximum width in pixels",
			"remove_hint":      "Click a thumbnail to remove it from the selection",
			"status_ready":     "Ready to upload",
			"upload":           "Upload",
			"install_required": "The multi-image uploader is not available in this browser. Use the form below to add images one by one.",
		},
		"ru": {
			"select_files":     "Выберите изображения",
			"resize":           "Уменьшать изображения шире, чем",
			"resize_width":     "Максимальная ширина в пикселях",
			"remove_hint":      "Щелкните по миниатюре, чтобы убрать ее из списка",
			"status_ready":     "Готово к загрузке",
			"upload":           "Загрузить",
			"install_required": "Загрузчик изображений недоступен в этом браузере. Добавляйте изображения по одному с помощью формы ниже.",
		},
	}
}
