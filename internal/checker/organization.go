package checker

// CategoryOrganization labels findings about the builder's own construction standard
const CategoryOrganization = "創建特有項目"

// NailPitchCeiling is the largest acceptable nail pitch in millimetres
const NailPitchCeiling = 150

// Item names checked by the organization-specific checker
const (
	ItemExternalInsulation    = "外断熱仕様"
	ItemFirstClassVentilation = "第一種換気システム"
	ItemNailPitch             = "釘ピッチ"
	ItemHiddenPartMethod      = "隠蔽部分の施工方法"
)

// OrganizationRules returns the rule table for the organization's construction standard
func OrganizationRules() []Rule {
	return []Rule{
		NewPresenceRule(ItemExternalInsulation, StatusFail, ImportanceRequired,
			"外断熱仕様が記載されていません",
			"創建基準: 外断熱仕様を明記してください",
			`外断熱`,
			`外部断熱`,
			`外側断熱`,
			`EXTERNAL\s*INSULATION`,
		),
		NewPresenceRule(ItemFirstClassVentilation, StatusFail, ImportanceRequired,
			"第一種換気システムの記載がありません",
			"創建基準: 第一種換気システムの仕様を明記してください",
			`第一種換気`,
			`1種換気`,
			`第一種`,
			`1ST\s*CLASS\s*VENTILATION`,
		),
		NewThresholdRule(ItemNailPitch, NailPitchCeiling,
			Outcome{
				Status:     StatusFail,
				Importance: ImportanceRequired,
				Message:    "釘ピッチが{value}mmです。創建基準は{ceiling}mm以下です。",
				Suggestion: "創建基準: 釘ピッチを{ceiling}mm以下に修正してください",
			},
			Outcome{
				Status:     StatusWarn,
				Importance: ImportanceRecommended,
				Message:    "釘ピッチの記載が見つかりません",
				Suggestion: "創建基準: 釘ピッチを明記してください（基準: {ceiling}mm以下）",
			},
			`釘ピッチ[:：]\s*(\d+)\s*mm`,
			`釘間隔[:：]\s*(\d+)\s*mm`,
			`NAIL\s*PITCH[:：]\s*(\d+)\s*mm`,
		),
		NewPresenceRule(ItemHiddenPartMethod, StatusWarn, ImportanceRecommended,
			"隠蔽部分の施工方法が明記されていない可能性があります",
			"創建基準: 隠蔽部分の施工方法を明記し、写真記録を指示してください",
			`隠蔽`,
			`写真記録`,
			`写真撮影`,
			`HIDDEN\s*PART`,
		),
	}
}

// NewOrganizationChecker creates the checker for the organization's construction standard
func NewOrganizationChecker() *RuleChecker {
	return NewRuleChecker(CategoryOrganization, OrganizationRules()...)
}
