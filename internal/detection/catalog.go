package detection

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Animal categories
const (
	LargeMammals = "large_mammals"
	Herbivores   = "herbivores"
	Carnivores   = "carnivores"
	Primates     = "primates"
	Birds        = "birds"
	Reptiles     = "reptiles"
	SmallMammals = "small_mammals"
)

const defaultEmoji = "🐾"

var categoryEmoji = map[string]string{
	LargeMammals: "🐘",
	Herbivores:   "🦌",
	Carnivores:   "🐺",
	Primates:     "🐵",
	Birds:        "🦉",
	Reptiles:     "🐍",
	SmallMammals: "🐾",
}

// Animal is a class the detector reports
type Animal struct {
	Name     string
	Category string
}

// animals maps model class ids to the animals the service reports
var animals = map[int]Animal{
	0:  {"deer", Herbivores},
	1:  {"gazelle", Herbivores},
	2:  {"antelope", Herbivores},
	3:  {"springbok", Herbivores},
	4:  {"oryx", Herbivores},
	5:  {"sable_antelope", Herbivores},
	6:  {"duiker", Herbivores},
	7:  {"warthog", Carnivores},
	8:  {"wild_boar", Carnivores},
	9:  {"hyena", Carnivores},
	10: {"jackal", Carnivores},
	11: {"fox", Carnivores},
	13: {"pangolin", SmallMammals},
	14: {"baboon", Primates},
	15: {"lion", LargeMammals},
	16: {"leopard", LargeMammals},
	17: {"cheetah", Carnivores},
	18: {"buffalo", LargeMammals},
	19: {"hippopotamus", LargeMammals},
	20: {"elephant", LargeMammals},
	21: {"bear", LargeMammals},
	22: {"zebra", LargeMammals},
	23: {"giraffe", LargeMammals},
	24: {"monkey", Primates},
	25: {"aardvark", SmallMammals},
	26: {"porcupine", SmallMammals},
	27: {"ostrich", Birds},
	28: {"hornbill", Birds},
	29: {"secretary_bird", Birds},
	30: {"vulture", Birds},
	31: {"eagle", Birds},
	32: {"owl", Birds},
	33: {"guinea_fowl", Birds},
	34: {"crocodile", Reptiles},
	35: {"monitor_lizard", Reptiles},
	36: {"python", Reptiles},
	37: {"tortoise", Reptiles},
	38: {"civet", SmallMammals},
	39: {"genet", SmallMammals},
	40: {"mongoose", SmallMammals},
	41: {"badger", SmallMammals},
	42: {"hedgehog", SmallMammals},
	43: {"skunk", SmallMammals},
	44: {"bat", SmallMammals},
	45: {"tiger", LargeMammals},
	46: {"rhino", LargeMammals},
	47: {"wildebeest", LargeMammals},
}

// classThresholds overrides the minimum confidence per animal
var classThresholds = map[string]float64{
	"elephant":       0.6,
	"bear":           0.65,
	"lion":           0.6,
	"tiger":          0.6,
	"leopard":        0.6,
	"rhino":          0.6,
	"hippopotamus":   0.6,
	"hyena":          0.5,
	"cheetah":        0.5,
	"fox":            0.5,
	"jackal":         0.5,
	"baboon":         0.45,
	"monkey":         0.45,
	"eagle":          0.5,
	"owl":            0.5,
	"vulture":        0.5,
	"crocodile":      0.55,
	"python":         0.5,
	"monitor_lizard": 0.45,
	"tortoise":       0.5,
}

// Catalog resolves model classes to animals and holds the confidence thresholds
type Catalog struct {
	DefaultThreshold float64
}

// NewCatalog returns a catalog using defaultThreshold for animals without an override
func NewCatalog(defaultThreshold float64) *Catalog {
	return &Catalog{DefaultThreshold: defaultThreshold}
}

// Lookup returns the animal for a model class id
func (c *Catalog) Lookup(classID int) (Animal, bool) {
	a, ok := animals[classID]
	return a, ok
}

// LookupName returns the class id of an animal by name
func (c *Catalog) LookupName(name string) (int, bool) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	for id, a := range animals {
		if a.Name == name {
			return id, true
		}
	}
	return 0, false
}

// ClassIDs returns all class ids the catalog knows
func (c *Catalog) ClassIDs() []int {
	ids := make([]int, 0, len(animals))
	for id := range animals {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Threshold returns the minimum confidence for an animal
func (c *Catalog) Threshold(name string) float64 {
	if t, ok := classThresholds[name]; ok {
		return t
	}
	return c.DefaultThreshold
}

// DisplayName turns a class name such as "sable_antelope" into "Sable Antelope"
func DisplayName(name string) string {
	// Casers keep state, so one is built per call.
	return cases.Title(language.English).String(strings.ReplaceAll(name, "_", " "))
}

// CategoryEmoji returns the emoji shown for a category
func CategoryEmoji(category string) string {
	if e, ok := categoryEmoji[category]; ok {
		return e
	}
	return defaultEmoji
}

// AlertMessage builds the user-facing alert for an animal
func AlertMessage(a Animal) string {
	emoji := CategoryEmoji(a.Category)
	name := DisplayName(a.Name)
	switch a.Category {
	case LargeMammals:
		return fmt.Sprintf("%s WARNING: Large Mammal Detected - %s! %s", emoji, name, emoji)
	case Carnivores:
		return fmt.Sprintf("%s Caution: %s detected! %s", emoji, name, emoji)
	default:
		return fmt.Sprintf("%s Detected: %s %s", emoji, name, emoji)
	}
}
