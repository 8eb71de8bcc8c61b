package usecase

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"chatstage/internal/domain/entity"
	"chatstage/internal/store"
)

// GeneratorUseCase bulk-synthesizes plausible resale conversations and
// merges them into the collection. Generation is pure given the RNG and
// clock, so tests run it with a fixed seed.
type GeneratorUseCase struct {
	vinted *store.Store

	mu  sync.Mutex
	rng *rand.Rand
	now func() time.Time
}

func NewGeneratorUseCase(vinted *store.Store, rng *rand.Rand, now func() time.Time) *GeneratorUseCase {
	if now == nil {
		now = time.Now
	}
	return &GeneratorUseCase{vinted: vinted, rng: rng, now: now}
}

type BulkCreateInput struct {
	Count           int
	DefaultUnread   bool
	RandomizeNames  bool
	GenderMode      string // "mix", "female", "male", "maleFocus"
	CustomUsernames []string
	RandomizeTimes  bool
	TimeRangeDays   int
	ProductTitle    string
	ProductPrice    float64
	ProductImage    string

	OfferPercentage     int
	RandomizeOfferPrice bool
	FixedOfferPrice     float64
	OfferPriceMin       float64
	OfferPriceMax       float64
}

// BulkCreate generates the requested batch, prepends it newest-first, and
// re-sorts the whole collection by each conversation's effective
// last-message timestamp. Returns the generated conversations.
func (uc *GeneratorUseCase) BulkCreate(input BulkCreateInput) []entity.Conversation {
	uc.mu.Lock()
	generated := Generate(input, uc.rng, uc.now())
	uc.mu.Unlock()

	existing := uc.vinted.Get()
	all := make([]entity.Conversation, 0, len(generated)+len(existing))
	all = append(all, generated...)
	all = append(all, existing...)
	sortByLastMessage(all)

	uc.vinted.Replace(all, store.OriginLocal)
	return generated
}

// ClearAll wipes the resale collection.
func (uc *GeneratorUseCase) ClearAll() {
	uc.vinted.Replace([]entity.Conversation{}, store.OriginLocal)
}

// Generate is the pure generation core. Produced conversations have no
// messages; their synthetic lastMessage carries the sort timestamp. Output
// is sorted newest first.
func Generate(input BulkCreateInput, rng *rand.Rand, now time.Time) []entity.Conversation {
	days := input.TimeRangeDays
	if days <= 0 {
		days = 7
	}
	windowStart := now.Add(-time.Duration(days) * 24 * time.Hour)

	basePrice := input.ProductPrice
	if basePrice <= 0 {
		basePrice = 25.00
	}
	title := input.ProductTitle
	if title == "" {
		title = "New Product"
	}
	image := input.ProductImage
	if image == "" {
		image = defaultProductImage
	}

	conversations := make([]entity.Conversation, 0, input.Count)
	for i := 0; i < input.Count; i++ {
		var username string
		switch {
		case input.RandomizeNames:
			username = randomUsername(rng, input.GenderMode)
		case len(input.CustomUsernames) > 0:
			username = input.CustomUsernames[i%len(input.CustomUsernames)]
		default:
			username = fmt.Sprintf("user_%d", i+1)
		}

		var timestamp time.Time
		if input.RandomizeTimes {
			timestamp = randomTime(rng, windowStart, now)
		} else {
			timestamp = now.Add(-time.Duration(i) * time.Hour)
		}

		// 30% get a custom avatar, the rest fall through to the default
		// silhouette (both fields nil).
		var avatar, avatarColor *string
		if rng.Float64() < 0.3 {
			avatar, avatarColor = randomAvatar(rng)
		}

		var offer *entity.Offer
		if float64(rng.Intn(100)) < float64(input.OfferPercentage) {
			var amount float64
			if input.RandomizeOfferPrice {
				min := input.OfferPriceMin
				if min <= 0 {
					min = 10
				}
				max := input.OfferPriceMax
				if max <= 0 {
					max = 50
				}
				amount = roundToFive(min + rng.Float64()*(max-min))
			} else {
				fixed := input.FixedOfferPrice
				if fixed <= 0 {
					fixed = 20
				}
				amount = roundToFive(fixed)
			}
			offer = &entity.Offer{
				Amount:        amount,
				OriginalPrice: basePrice,
				Status:        entity.OfferStatusPending,
			}
		}

		lastMessageText := "Hi! Is this still available?"
		if offer != nil {
			lastMessageText = fmt.Sprintf("Hi! Would you sell this for £%.2f?", offer.Amount)
		}

		unread := 0
		if input.DefaultUnread {
			unread = 1
		}

		ago := formatTimeAgo(now, timestamp)
		conversations = append(conversations, entity.Conversation{
			ID: uuid.New().String(),
			Participant: entity.Participant{
				ID:          uuid.New().String(),
				Name:        username,
				Avatar:      avatar,
				AvatarColor: avatarColor,
				Location:    "United Kingdom",
				LastSeen:    ago,
			},
			Product: entity.Product{
				ID:            uuid.New().String(),
				Title:         title,
				Price:         basePrice,
				OriginalPrice: basePrice * 1.5,
				Currency:      "GBP",
				Image:         image,
				Subtotal:      basePrice * 1.05,
				Status:        "available",
			},
			Offer:    offer,
			Messages: []entity.Message{},
			LastMessage: entity.LastMessage{
				Text:      lastMessageText,
				Timestamp: timestamp.UTC().Format(time.RFC3339),
				IsFromMe:  false,
			},
			UnreadCount: unread,
			TimeAgo:     ago,
		})
	}

	sortByLastMessage(conversations)
	return conversations
}

var (
	femaleNames = []string{"emma", "olivia", "sophie", "chloe", "mia", "emily", "grace", "lucy", "jessica", "amy", "hannah", "lily", "sarah", "lauren", "katie", "charlotte", "ella", "holly", "natalie", "jade", "rebecca", "anna", "rachel", "victoria", "beth", "zoe", "alice", "molly", "ruby", "ellie", "megan", "paige", "amber", "freya", "isabelle", "georgia", "poppy", "evie", "brooke", "millie"}
	maleNames   = []string{"james", "jack", "oliver", "harry", "charlie", "thomas", "george", "oscar", "william", "noah", "alfie", "jacob", "leo", "ethan", "archie", "joshua", "max", "henry", "lucas", "mason", "daniel", "logan", "alexander", "dylan", "jake", "connor", "callum", "jamie", "ryan", "luke", "adam", "nathan", "ben", "sam", "joe", "matt", "tom", "dan", "mike", "chris"}
	surnames    = []string{"smith", "jones", "wilson", "brown", "taylor", "davies", "evans", "thomas", "johnson", "roberts", "walker", "wright", "robinson", "thompson", "white", "hughes", "edwards", "green", "hall", "wood", "harris", "lewis", "martin", "jackson", "clarke", "clark", "turner", "hill", "scott", "moore", "cooper", "ward", "morris", "king", "watson", "baker", "patel", "ali", "khan", "ahmed"}
	casualWords = []string{"rad", "chill", "real", "just", "the", "its", "hey", "yo", "big", "lil", "mr", "cool", "top", "pro", "dj"}
)

// randomUsername builds usernames in the styles people actually use on
// resale apps: jsmith, emma99, wilson247, rad2025, realjake, ...
func randomUsername(rng *rand.Rand, genderMode string) string {
	var firstName string
	switch genderMode {
	case "female":
		firstName = femaleNames[rng.Intn(len(femaleNames))]
	case "male":
		firstName = maleNames[rng.Intn(len(maleNames))]
	case "maleFocus":
		if rng.Float64() < 0.8 {
			firstName = maleNames[rng.Intn(len(maleNames))]
		} else {
			firstName = femaleNames[rng.Intn(len(femaleNames))]
		}
	default:
		if rng.Float64() < 0.5 {
			firstName = femaleNames[rng.Intn(len(femaleNames))]
		} else {
			firstName = maleNames[rng.Intn(len(maleNames))]
		}
	}

	surname := surnames[rng.Intn(len(surnames))]
	initial := firstName[:1]
	shortYear := (1985 + rng.Intn(40)) % 100
	yearStr := fmt.Sprintf("%02d", shortYear)
	fullYear := 1990 + rng.Intn(36)
	num2 := fmt.Sprintf("%02d", rng.Intn(99))
	num3 := rng.Intn(999)

	r := rng.Float64()
	switch {
	case r < 0.12:
		return initial + surname
	case r < 0.20:
		const initials = "abcdefghjklmnprstw"
		return initial + string(initials[rng.Intn(len(initials))]) + surname
	case r < 0.32:
		sep := ""
		if rng.Float64() < 0.3 {
			sep = "_"
		}
		return firstName + sep + num2
	case r < 0.44:
		return surname + yearStr
	case r < 0.52:
		return firstName + surname
	case r < 0.60:
		return firstName + surname[:1]
	case r < 0.68:
		return fmt.Sprintf("%s%d", surname, num3)
	case r < 0.76:
		return firstName + yearStr
	case r < 0.82:
		return firstName + "_" + surname
	case r < 0.90:
		word := casualWords[rng.Intn(len(casualWords))]
		if rng.Float64() < 0.5 {
			return fmt.Sprintf("%s%d", word, fullYear)
		}
		return word + yearStr
	default:
		word := casualWords[rng.Intn(len(casualWords))]
		if rng.Float64() < 0.6 {
			return word + firstName
		}
		return fmt.Sprintf("%s%d", word, num3)
	}
}

// randomAvatar picks for the 30% that get one: 50% colored initial, 10%
// plain black, 20% landscape photo, 10% portrait photo, 10% random photo.
func randomAvatar(rng *rand.Rand) (avatar *string, avatarColor *string) {
	r := rng.Float64() * 100
	switch {
	case r < 50:
		color := fmt.Sprintf("hsl(%d, 50%%, 50%%)", rng.Intn(360))
		return nil, &color
	case r < 60:
		color := "#1a1a1a"
		return nil, &color
	case r < 80:
		seeds := []string{"sunset", "dusk", "dawn", "sky", "horizon", "beach", "mountain", "ocean"}
		url := fmt.Sprintf("https://picsum.photos/seed/%s%d/150/150", seeds[rng.Intn(len(seeds))], rng.Intn(100))
		return &url, nil
	case r < 90:
		portraitIDs := []int{11, 12, 13, 14, 15, 52, 53, 54, 55, 56, 57, 60, 61, 62, 63, 64, 65, 68, 69, 70}
		url := fmt.Sprintf("https://i.pravatar.cc/150?img=%d", portraitIDs[rng.Intn(len(portraitIDs))])
		return &url, nil
	default:
		url := fmt.Sprintf("https://picsum.photos/seed/%06x/150/150", rng.Intn(0xffffff))
		return &url, nil
	}
}

func randomTime(rng *rand.Rand, start, end time.Time) time.Time {
	span := end.Sub(start)
	return start.Add(time.Duration(rng.Float64() * float64(span)))
}

func roundToFive(amount float64) float64 {
	return math.Round(amount/5) * 5
}

func formatTimeAgo(now, t time.Time) string {
	diff := now.Sub(t)
	mins := int(diff.Minutes())
	hours := int(diff.Hours())
	days := int(diff.Hours() / 24)
	weeks := days / 7

	switch {
	case mins < 1:
		return "just now"
	case mins < 60:
		return fmt.Sprintf("%d min ago", mins)
	case hours < 24:
		return fmt.Sprintf("%d hour%s ago", hours, plural(hours))
	case days < 7:
		return fmt.Sprintf("%d day%s ago", days, plural(days))
	default:
		return fmt.Sprintf("%d week%s ago", weeks, plural(weeks))
	}
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}

// sortByLastMessage orders newest first by the effective last-message
// timestamp; unparseable or missing timestamps sort to the end.
func sortByLastMessage(convs []entity.Conversation) {
	sort.SliceStable(convs, func(i, j int) bool {
		return lastMessageTime(convs[i]).After(lastMessageTime(convs[j]))
	})
}

func lastMessageTime(c entity.Conversation) time.Time {
	t, err := time.Parse(time.RFC3339, c.LastMessage.Timestamp)
	if err != nil {
		return time.Time{}
	}
	return t
}
