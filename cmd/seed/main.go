package main

import (
	"context"
	"log"
	"os"

	"maharaja-assistant-be/internal/config"
	"maharaja-assistant-be/internal/entity"
	"maharaja-assistant-be/internal/repository/unitofwork"
	"maharaja-assistant-be/pkg/database"
	"maharaja-assistant-be/pkg/embedding"
	"maharaja-assistant-be/pkg/utils"

	"github.com/joho/godotenv"
)

const (
	chunkSize    = 1500
	chunkOverlap = 200
)

type seedDocument struct {
	Title     string
	Country   string
	Language  string
	SourceURL string
	Content   string
}

// A small starter corpus so the assistant can answer policy questions
// before any real documents are ingested through the API.
var seedDocuments = []seedDocument{
	{
		Title:     "Baggage Allowance - Domestic Flights",
		Country:   "IN",
		Language:  "en",
		SourceURL: "https://www.airindia.com/in/en/travel-information/baggage-guidelines.html",
		Content: `Air India domestic baggage allowance. Economy class passengers are permitted one piece of checked baggage up to 15 kg and one piece of cabin baggage up to 7 kg. Premium Economy passengers are permitted checked baggage up to 25 kg. Business class passengers are permitted checked baggage up to 35 kg and two pieces of cabin baggage with a combined weight of up to 12 kg. First class passengers are permitted checked baggage up to 40 kg. Cabin baggage dimensions must not exceed 55 cm x 35 cm x 25 cm. Excess baggage is charged at 600 INR per kg on domestic sectors. Infants not occupying a seat are permitted one piece of checked baggage up to 10 kg plus one collapsible stroller. Musical instruments and sporting equipment within the free allowance dimensions are carried as standard baggage; oversized items require pre-booking through the contact centre at least 48 hours before departure.`,
	},
	{
		Title:     "Baggage Allowance - International Flights",
		Country:   "",
		Language:  "en",
		SourceURL: "https://www.airindia.com/in/en/travel-information/baggage-guidelines.html",
		Content: `Air India international baggage allowance varies by route and cabin. On most international sectors Economy class passengers are permitted two pieces of checked baggage of up to 23 kg each. Business class passengers are permitted two pieces of up to 32 kg each. First class passengers are permitted three pieces of up to 32 kg each. Routes to and from the United States and Canada follow the piece concept for all cabins. Cabin baggage on international flights is limited to one piece of up to 7 kg in Economy and up to 12 kg combined across two pieces in Business and First. Excess piece charges apply per additional bag and are payable at the airport or online in advance at a discount. Flying Returns elite members receive an additional baggage allowance of one piece or 10 kg depending on the route concept.`,
	},
	{
		Title:     "Flight Cancellation and Refund Policy",
		Country:   "IN",
		Language:  "en",
		SourceURL: "https://www.airindia.com/in/en/customer-support/refund-policy.html",
		Content: `Air India cancellation and refund policy. Tickets cancelled within 24 hours of booking are refunded in full provided the departure is at least 7 days away. After the 24 hour window, cancellation charges depend on the fare family. Flex fares may be cancelled up to 2 hours before departure with no penalty. Comfort fares attract a cancellation charge of 3500 INR on domestic sectors and 8000 INR on international sectors. Value fares are non-refundable except for unused taxes and fees. Refunds to the original form of payment are processed within 7 working days for cards and within 20 working days for agency bookings. If Air India cancels a flight, passengers are entitled to a full refund or free rebooking on the next available service. No-show passengers forfeit the base fare on Value and Comfort fares.`,
	},
	{
		Title:     "Travelling with Pets",
		Country:   "",
		Language:  "en",
		SourceURL: "https://www.airindia.com/in/en/travel-information/travelling-with-pets.html",
		Content: `Air India accepts small dogs, cats and birds in the cabin on domestic flights, subject to approval from the booking office at least 48 hours before travel. The combined weight of the pet and its container must not exceed 5 kg for cabin carriage. Heavier pets travel in the pressurised cargo hold as excess baggage. Pets are charged at the excess baggage rate and are never included in the free baggage allowance. A valid health certificate and rabies vaccination certificate issued within 30 days of travel are mandatory. Pets are not accepted on international sectors in the cabin; they must travel as manifested cargo through an approved agent. Service dogs accompanying passengers with disabilities travel free of charge in the cabin with prior notification.`,
	},
	{
		Title:     "Special Assistance and Wheelchair Services",
		Country:   "",
		Language:  "en",
		SourceURL: "https://www.airindia.com/in/en/travel-information/special-assistance.html",
		Content: `Air India provides complimentary wheelchair assistance at all airports it serves. Passengers requiring a wheelchair should request one at the time of booking or at least 48 hours before departure through the contact centre at 1-800-180-1407. Three service levels are offered: assistance to and from the aircraft door, assistance up and down stairs, and assistance to the seat. Passengers travelling with their own battery powered wheelchair must declare the battery type at check-in; spillable batteries are carried disconnected in the hold. Unaccompanied passengers who cannot care for themselves in flight must travel with a safety assistant. Expectant mothers may travel up to the end of the 32nd week on domestic flights with a fit-to-fly certificate issued within 7 days of travel.`,
	},
	{
		Title:     "सामान भत्ता - घरेलू उड़ानें",
		Country:   "IN",
		Language:  "hi",
		SourceURL: "https://www.airindia.com/in/hi/travel-information/baggage-guidelines.html",
		Content: `एयर इंडिया घरेलू उड़ानों पर सामान भत्ता। इकोनॉमी श्रेणी के यात्रियों को 15 किलोग्राम तक का एक चेक-इन बैग और 7 किलोग्राम तक का एक केबिन बैग ले जाने की अनुमति है। बिजनेस श्रेणी के यात्रियों को 35 किलोग्राम तक का चेक-इन सामान और कुल 12 किलोग्राम तक के दो केबिन बैग ले जाने की अनुमति है। केबिन बैग का आकार 55 सेमी x 35 सेमी x 25 सेमी से अधिक नहीं होना चाहिए। अतिरिक्त सामान के लिए घरेलू मार्गों पर 600 रुपये प्रति किलोग्राम शुल्क लिया जाता है। सीट न लेने वाले शिशुओं के लिए 10 किलोग्राम तक का एक चेक-इन बैग और एक मोड़ने योग्य प्रैम की अनुमति है।`,
	},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: no .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: failed to connect to database:", err)
	}

	cfg := config.Load()
	provider := embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.EmbeddingModel)
	factory := unitofwork.NewRepositoryFactory(db)
	ctx := context.Background()

	log.Printf("Seeding %d policy documents...", len(seedDocuments))

	for _, seed := range seedDocuments {
		if err := seedOne(ctx, factory, provider, seed); err != nil {
			log.Fatalf("Error: failed to seed %q: %v", seed.Title, err)
		}
		log.Printf("Seeded: %s", seed.Title)
	}

	log.Println("Seeding complete.")
}

func seedOne(ctx context.Context, factory unitofwork.RepositoryFactory, provider embedding.EmbeddingProvider, seed seedDocument) error {
	uow := factory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	existing, err := uow.PolicyDocumentRepository().FindAll(ctx)
	if err != nil {
		return err
	}
	for _, doc := range existing {
		if doc.Title == seed.Title {
			log.Printf("Skipping %q: already present", seed.Title)
			return nil
		}
	}

	doc := &entity.PolicyDocument{
		Title:     seed.Title,
		Content:   seed.Content,
		Country:   seed.Country,
		Language:  seed.Language,
		SourceURL: seed.SourceURL,
	}
	if err := uow.PolicyDocumentRepository().Create(ctx, doc); err != nil {
		return err
	}

	chunks := utils.SplitText(seed.Content, chunkSize, chunkOverlap)
	embeddings := make([]*entity.PolicyEmbedding, 0, len(chunks))
	for i, chunk := range chunks {
		resp, err := provider.Generate(chunk, embedding.TaskDocument)
		if err != nil {
			return err
		}
		embeddings = append(embeddings, &entity.PolicyEmbedding{
			PolicyDocumentId: doc.Id,
			Chunk:            chunk,
			ChunkIndex:       i,
			Country:          seed.Country,
			Language:         seed.Language,
			SourceURL:        seed.SourceURL,
			EmbeddingValue:   resp.Values,
		})
	}
	if err := uow.PolicyEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		return err
	}

	return uow.Commit()
}
