package areas

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-sitecms/internal/bilingual"
	"github.com/goliatone/go-sitecms/internal/icons"
)

// Area names a content area. Every area owns exactly one record.
type Area string

const (
	Home        Area = "home"
	AboutUs     Area = "about-us"
	ContactUs   Area = "contact-us"
	Footer      Area = "footer"
	OurProjects Area = "our-projects"
	OurClients  Area = "our-clients"
	Settings    Area = "settings"
)

// ErrUnknownArea is returned for area names outside the registry.
var ErrUnknownArea = errors.New("areas: unknown content area")

// Definition binds an area to its field schema.
type Definition struct {
	Area   Area
	Label  string
	Schema bilingual.Schema
}

// Registry is the fixed list of areas the site serves.
type Registry struct {
	order []Area
	defs  map[Area]Definition
}

// NewRegistry builds a registry from definitions, keeping their order.
func NewRegistry(defs ...Definition) (*Registry, error) {
	r := &Registry{defs: make(map[Area]Definition, len(defs))}
	for _, def := range defs {
		if def.Area == "" {
			return nil, fmt.Errorf("areas: definition without area")
		}
		if _, dup := r.defs[def.Area]; dup {
			return nil, fmt.Errorf("areas: duplicate definition %q", def.Area)
		}
		r.defs[def.Area] = def
		r.order = append(r.order, def.Area)
	}
	return r, nil
}

// Lookup resolves name to its definition.
func (r *Registry) Lookup(name string) (Definition, error) {
	def, ok := r.defs[Area(strings.ToLower(strings.TrimSpace(name)))]
	if !ok {
		return Definition{}, fmt.Errorf("%w: %q", ErrUnknownArea, name)
	}
	return def, nil
}

// Definitions returns every definition in registration order.
func (r *Registry) Definitions() []Definition {
	out := make([]Definition, 0, len(r.order))
	for _, area := range r.order {
		out = append(out, r.defs[area])
	}
	return out
}

func hero() []bilingual.Field {
	return []bilingual.Field{
		bilingual.Line("heroTitle"),
		bilingual.Paragraph("heroSubtitle"),
		bilingual.Neutral("heroImage", bilingual.KindImage),
	}
}

func fields(groups ...[]bilingual.Field) []bilingual.Field {
	var out []bilingual.Field
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func iconField(key string, icon icons.Icon) bilingual.Field {
	return bilingual.Neutral(key, bilingual.KindIcon).WithDefault(string(icon))
}

// DefaultRegistry returns the site's seven content areas.
func DefaultRegistry() *Registry {
	registry, err := NewRegistry(
		Definition{Area: Home, Label: "Home", Schema: bilingual.MustSchema(fields(hero(), []bilingual.Field{
			bilingual.Line("heroButtonText"),
			bilingual.Line("aboutTitle"),
			bilingual.Paragraph("aboutDescription"),
			bilingual.Neutral("aboutImage", bilingual.KindImage),
			bilingual.Neutral("statsProjects", bilingual.KindInteger),
			bilingual.Line("statsProjectsLabel"),
			bilingual.Neutral("statsClients", bilingual.KindInteger),
			bilingual.Line("statsClientsLabel"),
			bilingual.Neutral("statsYears", bilingual.KindInteger),
			bilingual.Line("statsYearsLabel"),
			bilingual.Line("servicesTitle"),
			bilingual.Paragraph("servicesDescription"),
			bilingual.Line("ctaTitle"),
			bilingual.Paragraph("ctaDescription"),
			bilingual.Line("ctaButtonText"),
		})...)},
		Definition{Area: AboutUs, Label: "About Us", Schema: bilingual.MustSchema(fields(hero(), []bilingual.Field{
			bilingual.Line("storyTitle"),
			bilingual.RichText("storyContent"),
			bilingual.Neutral("storyImage", bilingual.KindImage),
			bilingual.Line("visionTitle"),
			bilingual.Paragraph("visionContent"),
			bilingual.Line("missionTitle"),
			bilingual.Paragraph("missionContent"),
			bilingual.Line("valuesTitle"),
			bilingual.Line("value1Title"),
			bilingual.Paragraph("value1Description"),
			iconField("value1Icon", icons.Award),
			bilingual.Line("value2Title"),
			bilingual.Paragraph("value2Description"),
			iconField("value2Icon", icons.Users),
			bilingual.Line("value3Title"),
			bilingual.Paragraph("value3Description"),
			iconField("value3Icon", icons.Building),
			bilingual.Neutral("teamImage", bilingual.KindImage),
		})...)},
		Definition{Area: ContactUs, Label: "Contact Us", Schema: bilingual.MustSchema(fields(hero(), []bilingual.Field{
			bilingual.Line("formTitle"),
			bilingual.Paragraph("formDescription"),
			bilingual.Paragraph("address"),
			iconField("addressIcon", icons.Location),
			bilingual.Neutral("phone", bilingual.KindString),
			iconField("phoneIcon", icons.Phone),
			bilingual.Neutral("email", bilingual.KindString),
			iconField("emailIcon", icons.Email),
			bilingual.Line("workingHours"),
			iconField("workingHoursIcon", icons.Clock),
			bilingual.Neutral("mapEmbedUrl", bilingual.KindURL),
		})...)},
		Definition{Area: Footer, Label: "Footer", Schema: bilingual.MustSchema(
			bilingual.Neutral("logo", bilingual.KindImage),
			bilingual.Line("companyName"),
			bilingual.Paragraph("description"),
			bilingual.Line("address"),
			bilingual.Neutral("phone", bilingual.KindString),
			bilingual.Neutral("email", bilingual.KindString),
			bilingual.Neutral("facebookUrl", bilingual.KindURL),
			bilingual.Neutral("instagramUrl", bilingual.KindURL),
			bilingual.Neutral("twitterUrl", bilingual.KindURL),
			bilingual.Neutral("linkedinUrl", bilingual.KindURL),
			bilingual.Neutral("youtubeUrl", bilingual.KindURL),
			bilingual.Line("copyright"),
		)},
		Definition{Area: OurProjects, Label: "Our Projects", Schema: bilingual.MustSchema(fields(hero(), []bilingual.Field{
			bilingual.Line("introTitle"),
			bilingual.Paragraph("introDescription"),
			bilingual.Line("emptyMessage"),
		})...)},
		Definition{Area: OurClients, Label: "Our Clients", Schema: bilingual.MustSchema(fields(hero(), []bilingual.Field{
			bilingual.Line("introTitle"),
			bilingual.Paragraph("introDescription"),
			bilingual.Line("testimonialsTitle"),
		})...)},
		Definition{Area: Settings, Label: "Settings", Schema: bilingual.MustSchema(
			bilingual.Line("siteName"),
			bilingual.Neutral("logo", bilingual.KindImage),
			bilingual.Neutral("favicon", bilingual.KindImage),
			bilingual.Neutral("fontArabic", bilingual.KindString).WithDefault("Cairo"),
			bilingual.Neutral("fontEnglish", bilingual.KindString).WithDefault("Inter"),
			bilingual.Neutral("showHome", bilingual.KindBool).WithDefault(true),
			bilingual.Neutral("showAbout", bilingual.KindBool).WithDefault(true),
			bilingual.Neutral("showProjects", bilingual.KindBool).WithDefault(true),
			bilingual.Neutral("showClients", bilingual.KindBool).WithDefault(true),
			bilingual.Neutral("showContact", bilingual.KindBool).WithDefault(true),
			bilingual.Neutral("smtpHost", bilingual.KindString).AsPrivate(),
			bilingual.Neutral("smtpPort", bilingual.KindInteger).WithDefault(587).AsPrivate(),
			bilingual.Neutral("smtpUser", bilingual.KindString).AsPrivate(),
			bilingual.Neutral("smtpPassword", bilingual.KindString).AsPrivate(),
			bilingual.Neutral("smtpFrom", bilingual.KindString).AsPrivate(),
			bilingual.Neutral("contactRecipient", bilingual.KindString).AsPrivate(),
			bilingual.Neutral("whatsappEnabled", bilingual.KindBool),
			bilingual.Neutral("whatsappNumber", bilingual.KindString),
			bilingual.Line("whatsappMessage"),
		)},
	)
	if err != nil {
		panic(err)
	}
	return registry
}
