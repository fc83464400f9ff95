package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Load charge .env si présent ; en conteneur les variables viennent de
// l'environnement et l'absence du fichier n'est pas une erreur.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Aucun fichier .env trouvé, utilisation des variables d'environnement")
		return
	}
	log.Println("✅ Fichier .env chargé")
}

func Get(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
