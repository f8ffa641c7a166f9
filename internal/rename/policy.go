// Package rename turns a project index and a casing policy into an ordered,
// conflict-checked rename plan.
package rename

import (
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/project/index"
	"github.com/SimulatorLife/prettier-plugin-gml-sub007/internal/rename/casing"
)

// CasingPolicy maps identifier and asset categories to target casing
// styles. Categories without a rule are left alone.
type CasingPolicy struct {
	// Rules are the per-category styles for code identifiers.
	Rules map[index.Category]casing.Style

	// Assets are the per-category styles for resource names.
	Assets map[index.ResourceCategory]casing.Style

	// AcknowledgeAssetRenames includes asset renames in the applicable
	// plan. Without it, asset candidates are computed but held, since
	// renaming an asset can break references outside the project.
	AcknowledgeAssetRenames bool
}

// DefaultPolicy is the conventional GameMaker style: snake_case almost
// everywhere, SCREAMING_SNAKE macros, PascalCase enums.
func DefaultPolicy() CasingPolicy {
	return CasingPolicy{
		Rules: map[index.Category]casing.Style{
			index.CategoryLocal:      casing.Snake,
			index.CategoryParameter:  casing.Snake,
			index.CategoryFunction:   casing.Snake,
			index.CategoryGlobal:     casing.Snake,
			index.CategoryInstance:   casing.Snake,
			index.CategoryEnum:       casing.Pascal,
			index.CategoryEnumMember: casing.Pascal,
			index.CategoryMacro:      casing.Scream,
		},
		Assets: map[index.ResourceCategory]casing.Style{
			index.ResourceSprite:  casing.Snake,
			index.ResourceObject:  casing.Snake,
			index.ResourceSound:   casing.Snake,
			index.ResourceRoom:    casing.Snake,
			index.ResourceScript:  casing.Snake,
			index.ResourceFont:    casing.Snake,
			index.ResourceTileset: casing.Snake,
			index.ResourcePath:    casing.Snake,
			index.ResourceShader:  casing.Snake,
		},
	}
}
