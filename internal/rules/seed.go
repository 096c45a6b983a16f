package rules

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rcmbooks/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var gstRollout = time.Date(2017, time.July, 1, 0, 0, 0, 0, time.UTC)

// seedRule builds an active rule effective from GST rollout.
func seedRule(kind domain.RuleKind, patterns []string, desc, rate, ref string, priority int) domain.NotifiedRule {
	return domain.NotifiedRule{
		ID:              uuid.New(),
		Kind:            kind,
		CodePatterns:    patterns,
		Description:     desc,
		GSTRate:         d(rate),
		EffectiveFrom:   gstRollout,
		NotificationRef: ref,
		IsActive:        true,
		Priority:        priority,
	}
}

// SeedRules returns the statutory notified-rule table: services under
// Notification 13/2017-CT(R) and goods under Notification 4/2017-CT(R),
// with later amendments appended as higher-priority rules.
func SeedRules() []domain.NotifiedRule {
	rules := []domain.NotifiedRule{
		// Services, Notification 13/2017-Central Tax (Rate)
		seedRule(domain.RuleKindService, []string{"9965", "9967"},
			"Goods transport agency (GTA) services", "5", "13/2017-CT(R) Sl.1", 10),
		seedRule(domain.RuleKindService, []string{"9982"},
			"Legal services by advocate or firm of advocates", "18", "13/2017-CT(R) Sl.2", 10),
		seedRule(domain.RuleKindService, []string{"998391"},
			"Services of an arbitral tribunal", "18", "13/2017-CT(R) Sl.3", 10),
		seedRule(domain.RuleKindService, []string{"998397"},
			"Sponsorship services to a body corporate or partnership firm", "18", "13/2017-CT(R) Sl.4", 10),
		seedRule(domain.RuleKindService, []string{"9983", "9991"},
			"Services by central/state government, excluding renting and post", "18", "13/2017-CT(R) Sl.5", 5),
		seedRule(domain.RuleKindService, []string{"998599"},
			"Services of a director to the company or body corporate", "18", "13/2017-CT(R) Sl.6", 10),
		seedRule(domain.RuleKindService, []string{"997159"},
			"Services of an insurance agent", "18", "13/2017-CT(R) Sl.7", 10),
		seedRule(domain.RuleKindService, []string{"997161"},
			"Services of a recovery agent to banking company or NBFC", "18", "13/2017-CT(R) Sl.8", 10),
		seedRule(domain.RuleKindService, []string{"9973"},
			"Transfer or permitting use of copyright by author/artist", "12", "13/2017-CT(R) Sl.9", 10),
		seedRule(domain.RuleKindService, []string{"998525"},
			"Security services (supply of security personnel) to a registered person", "18", "29/2018-CT(R)", 10),
		seedRule(domain.RuleKindService, []string{"9964", "9966"},
			"Renting of motor vehicle designed to carry passengers, with fuel cost", "5", "22/2019-CT(R)", 10),

		// Goods, Notification 4/2017-Central Tax (Rate)
		seedRule(domain.RuleKindGoods, []string{"0801"},
			"Cashew nuts, not shelled or peeled, from agriculturist", "5", "4/2017-CT(R) Sl.1", 10),
		seedRule(domain.RuleKindGoods, []string{"1404", "14049010"},
			"Bidi wrapper leaves (tendu) from agriculturist", "5", "4/2017-CT(R) Sl.2", 10),
		seedRule(domain.RuleKindGoods, []string{"2401"},
			"Tobacco leaves from agriculturist", "5", "4/2017-CT(R) Sl.3", 10),
		seedRule(domain.RuleKindGoods, []string{"5004", "5005", "5006"},
			"Silk yarn from manufacturer of silk yarn", "5", "4/2017-CT(R) Sl.4", 10),
		seedRule(domain.RuleKindGoods, []string{"5201"},
			"Raw cotton from agriculturist", "5", "43/2017-CT(R)", 10),
	}
	return rules
}
