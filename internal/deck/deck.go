package deck

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"cardpress/internal/cards"
	"cardpress/internal/services"
)

// Card is one front slot in a deck manifest. Count repeats the card that
// many times in the export order; zero means one.
type Card struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Image string `toml:"image"`
	Back  string `toml:"back"`
	Count int    `toml:"count"`
}

// Back is a reusable back design referenced by id from cards.
type Back struct {
	ID    string `toml:"id"`
	Name  string `toml:"name"`
	Image string `toml:"image"`
}

// Deck is a TOML deck manifest: an ordered card list plus the back designs
// they reference.
type Deck struct {
	Name        string `toml:"name"`
	DefaultBack string `toml:"default_back"`
	Cards       []Card `toml:"cards"`
	Backs       []Back `toml:"backs"`
}

// Load reads and validates a deck manifest.
func Load(path string) (*Deck, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "deck", "load", fmt.Sprintf("open manifest %s", path), err)
	}
	defer file.Close()

	var d Deck
	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(&d); err != nil {
		return nil, services.Wrap(services.ErrValidation, "deck", "load", fmt.Sprintf("parse manifest %s", path), err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks manifest integrity. Cards referencing an undefined back
// are allowed; such references degrade to a blank placeholder at resolve
// time rather than failing the manifest.
func (d *Deck) Validate() error {
	if len(d.Cards) == 0 {
		return services.Wrap(services.ErrValidation, "deck", "validate", "manifest defines no cards", nil)
	}

	seen := make(map[string]struct{}, len(d.Cards))
	for i, card := range d.Cards {
		id := strings.TrimSpace(card.ID)
		if id == "" {
			return services.Wrap(services.ErrValidation, "deck", "validate", fmt.Sprintf("card %d has no id", i+1), nil)
		}
		if _, dup := seen[id]; dup {
			return services.Wrap(services.ErrValidation, "deck", "validate", fmt.Sprintf("duplicate card id %q", id), nil)
		}
		seen[id] = struct{}{}
		if strings.TrimSpace(card.Image) == "" {
			return services.Wrap(services.ErrValidation, "deck", "validate", fmt.Sprintf("card %q has no image", id), nil)
		}
		if card.Count < 0 {
			return services.Wrap(services.ErrValidation, "deck", "validate", fmt.Sprintf("card %q has negative count", id), nil)
		}
	}

	backSeen := make(map[string]struct{}, len(d.Backs))
	for i, back := range d.Backs {
		id := strings.TrimSpace(back.ID)
		if id == "" {
			return services.Wrap(services.ErrValidation, "deck", "validate", fmt.Sprintf("back %d has no id", i+1), nil)
		}
		if _, dup := backSeen[id]; dup {
			return services.Wrap(services.ErrValidation, "deck", "validate", fmt.Sprintf("duplicate back id %q", id), nil)
		}
		backSeen[id] = struct{}{}
		if strings.TrimSpace(back.Image) == "" {
			return services.Wrap(services.ErrValidation, "deck", "validate", fmt.Sprintf("back %q has no image", id), nil)
		}
	}
	return nil
}

// Fronts expands the manifest into the ordered front sequence. Repeated
// copies get a #n suffix on the id so every face stays addressable.
func (d *Deck) Fronts() []cards.Face {
	fronts := make([]cards.Face, 0, len(d.Cards))
	for _, card := range d.Cards {
		count := card.Count
		if count < 1 {
			count = 1
		}

		backID := strings.TrimSpace(card.Back)
		if backID == "" {
			backID = strings.TrimSpace(d.DefaultBack)
		}

		for copyIdx := 1; copyIdx <= count; copyIdx++ {
			id := card.ID
			if copyIdx > 1 {
				id = fmt.Sprintf("%s#%d", card.ID, copyIdx)
			}
			fronts = append(fronts, cards.Face{
				ID:           id,
				DisplayName:  card.Name,
				ImageRef:     card.Image,
				LinkedBackID: backID,
			})
		}
	}
	return fronts
}

// Lookup returns the back resolver view of the manifest. Backs inherited
// from the deck-level default are flagged as default backs.
func (d *Deck) Lookup() cards.Lookup {
	backs := make(map[string]Back, len(d.Backs))
	for _, back := range d.Backs {
		backs[strings.TrimSpace(back.ID)] = back
	}
	return &manifestLookup{backs: backs, defaultBack: strings.TrimSpace(d.DefaultBack)}
}

type manifestLookup struct {
	backs       map[string]Back
	defaultBack string
}

func (l *manifestLookup) Back(ctx context.Context, id string) (cards.Face, bool, error) {
	if err := ctx.Err(); err != nil {
		return cards.Face{}, false, err
	}
	back, ok := l.backs[id]
	if !ok {
		return cards.Face{}, false, nil
	}
	return cards.Face{
		ID:          back.ID,
		DisplayName: back.Name,
		ImageRef:    back.Image,
		DefaultBack: back.ID == l.defaultBack,
	}, true, nil
}
