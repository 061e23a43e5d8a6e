package blogservice

import (
	"strings"

	"github.com/mizutamauma/bloghub/internal/common"
)

func validateTitle(v *common.Validator, title string) {
	v.Check(title != "", "title", "must be provided")
	v.Check(len(title) <= 300, "title", "must not be more than 300 characters long")
}

func validateCategory(v *common.Validator, category string) {
	v.Check(category != "", "category", "must be provided")
	v.Check(v.CheckPermittedValue(category, Categories...), "category", "is not a supported category")
}

func validateContent(v *common.Validator, content string) {
	v.Check(content != "", "content", "must be provided")
}

// validateBanner checks that a non-default banner URL points at the trusted
// blob store host.
func validateBanner(v *common.Validator, banner, trustedPrefix string) {
	if banner == "" || banner == DefaultBanner {
		return
	}
	v.Check(strings.HasPrefix(banner, trustedPrefix), "banner", "must be an uploaded banner URL")
}

func validateInt(v *common.Validator, num int, name string) {
	v.Check(num > 0, name, "must be greater than zero")
}
