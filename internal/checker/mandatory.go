package checker

// CategoryMandatoryFields labels findings about title-block items every drawing must carry
const CategoryMandatoryFields = "必須記載事項"

// Item names checked by the mandatory-fields checker
const (
	ItemDrawingNumber = "図面番号"
	ItemDrawingName   = "図面名"
	ItemScale         = "縮尺"
	ItemCreationDate  = "作成日"
	ItemCreator       = "作成者"
)

// MandatoryFieldsRules returns the rule table for the mandatory title-block items
func MandatoryFieldsRules() []Rule {
	return []Rule{
		NewPresenceRule(ItemDrawingNumber, StatusFail, ImportanceRequired,
			"図面番号が記載されていません",
			"図面番号を明記してください（例: A-001, S-001）",
			`図面番号[:：]\s*[A-Z0-9\-]+`,
			`図番[:：]\s*[A-Z0-9\-]+`,
			`DWG\s*NO[:：]\s*[A-Z0-9\-]+`,
			`[A-Z]\-\d{3,}`,
			`S\-\d{3,}`,
		),
		NewPresenceRule(ItemDrawingName, StatusFail, ImportanceRequired,
			"図面名が記載されていません",
			"図面名を明記してください（例: 1階平面図、立面図）",
			`図面名[:：]`,
			`平面図`,
			`立面図`,
			`断面図`,
			`詳細図`,
			`配置図`,
		),
		NewPresenceRule(ItemScale, StatusFail, ImportanceRequired,
			"縮尺が記載されていません",
			"縮尺を明記してください（例: 1/100, 1/50）",
			`縮尺[:：]\s*1[/／]\d+`,
			`SCALE[:：]\s*1[/／]\d+`,
			`1[/／]\d+`,
		),
		NewPresenceRule(ItemCreationDate, StatusWarn, ImportanceRecommended,
			"作成日が明示されていない可能性があります",
			"作成日を明記してください",
			`作成日[:：]\s*\d{4}[/年]\d{1,2}[/月]\d{1,2}[日]?`,
			`作成日[:：]\s*\d{4}[-/]\d{1,2}[-/]\d{1,2}`,
			`DATE[:：]\s*\d{4}[-/]\d{1,2}[-/]\d{1,2}`,
		),
		NewPresenceRule(ItemCreator, StatusWarn, ImportanceRecommended,
			"作成者が明示されていない可能性があります",
			"作成者名を明記してください",
			`作成者[:：]`,
			`作成[:：]`,
			`設計者[:：]`,
			`DRAWN\s*BY[:：]`,
		),
	}
}

// NewMandatoryFieldsChecker creates the checker for mandatory title-block items
func NewMandatoryFieldsChecker() *RuleChecker {
	return NewRuleChecker(CategoryMandatoryFields, MandatoryFieldsRules()...)
}
