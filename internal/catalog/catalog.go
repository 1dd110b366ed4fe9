// Package catalog holds the compiled-in national support resources.
// There is exactly one list per supported country and each list is
// always non-empty: a caller must never be left without at least one
// resource, even when geocoding is fully down.
package catalog

import (
	"slices"

	"github.com/havenwell/waypoint/internal/models"
)

var usResources = []models.NationalResource{
	{
		Name:        "988 Suicide & Crisis Lifeline",
		Description: "Free, confidential crisis support, 24/7. Call or text 988.",
		Website:     "https://988lifeline.org",
		Phone:       "988",
		Type:        models.ResourceTypeNational,
	},
	{
		Name:        "Crisis Text Line",
		Description: "Text HOME to 741741 to reach a volunteer crisis counselor.",
		Website:     "https://www.crisistextline.org",
		Phone:       "741741",
		Type:        models.ResourceTypeNational,
	},
	{
		Name:        "SAMHSA National Helpline",
		Description: "Treatment referral and information service for mental health and substance use, 24/7.",
		Website:     "https://www.samhsa.gov/find-help/national-helpline",
		Phone:       "1-800-662-4357",
		Type:        models.ResourceTypeNational,
	},
	{
		Name:        "NAMI HelpLine",
		Description: "Peer-support service offering information and referrals, Mon-Fri 10am-10pm ET.",
		Website:     "https://www.nami.org/help",
		Phone:       "1-800-950-6264",
		Type:        models.ResourceTypeNational,
	},
}

var caResources = []models.NationalResource{
	{
		Name:        "9-8-8 Suicide Crisis Helpline",
		Description: "Free, confidential crisis support across Canada, 24/7. Call or text 9-8-8.",
		Website:     "https://988.ca",
		Phone:       "988",
		Type:        models.ResourceTypeNational,
	},
	{
		Name:        "Kids Help Phone",
		Description: "Support for young people by phone, text and chat, 24/7.",
		Website:     "https://kidshelpphone.ca",
		Phone:       "1-800-668-6868",
		Type:        models.ResourceTypeNational,
	},
	{
		Name:        "Wellness Together Canada",
		Description: "Mental health and substance use support funded by the Government of Canada.",
		Website:     "https://www.wellnesstogether.ca",
		Phone:       "1-866-585-0445",
		Type:        models.ResourceTypeNational,
	},
	{
		Name:        "Hope for Wellness Help Line",
		Description: "Counselling and crisis intervention for Indigenous peoples, 24/7.",
		Website:     "https://www.hopeforwellness.ca",
		Phone:       "1-855-242-3310",
		Type:        models.ResourceTypeNational,
	},
}

// For returns the national resources for a country. Unknown values fall
// back to the US list so the service never hands back an empty set.
func For(country string) []models.NationalResource {
	switch country {
	case models.CountryCA:
		return slices.Clone(caResources)
	default:
		return slices.Clone(usResources)
	}
}
