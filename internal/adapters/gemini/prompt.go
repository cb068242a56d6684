package gemini

import (
	"fmt"

	"github.com/benoitgrasset/restoFinderIA/internal/domain"
)

// The model answers in French like the product UI. The prompt asks for a
// JSON-only code block; the normalizer still tolerates surrounding prose.
const promptTemplate = `Je cherche des restaurants près de %s.
Rayon de recherche : %g km.

Utilise l'outil Google Maps pour trouver les VRAIS restaurants les mieux notés dans cette zone.

IMPORTANT : Ta réponse doit contenir UNIQUEMENT un bloc de code JSON valide.
N'écris pas de texte avant ou après le bloc JSON.

Le JSON doit être une liste d'objets avec la structure suivante :
[
  {
    "id": "unique_id",
    "name": "Nom du restaurant",
    "rating": 4.5,
    "reviewCount": 120,
    "cuisine": "Type de cuisine (ex: Italien, Japonais, Burger, Français...)",
    "priceLevel": "€€ ou €€€",
    "address": "Adresse complète",
    "description": "Une courte description attrayante du menu et de l'ambiance (max 20 mots).",
    "lat": 48.8566,
    "lng": 2.3522,
    "reviews": [
      { "author": "Prénom", "rating": 5, "text": "Le texte de l'avis..." }
    ]
  }
]

Les champs lat et lng sont des nombres (coordonnées exactes si disponibles, sinon estimées d'après l'adresse).
Inclus jusqu'à %d avis pertinents et détaillés par restaurant dans le tableau "reviews".
Trie les résultats par note (rating) décroissante.`

// maxReviewsPerRestaurant bounds the nested reviews requested upstream.
const maxReviewsPerRestaurant = 15

func buildPrompt(q domain.SearchQuery) string {
	locationText := fmt.Sprintf("l'adresse suivante : %q", q.Address)
	if q.Location != nil {
		locationText = fmt.Sprintf("ma position actuelle (Latitude: %g, Longitude: %g)",
			q.Location.Lat, q.Location.Lng)
	}
	return fmt.Sprintf(promptTemplate, locationText, q.Radius, maxReviewsPerRestaurant)
}
