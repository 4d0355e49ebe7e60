package models

import "strings"

// KenyanCounties - список 47 округов Кении.
var KenyanCounties = []string{
	"Mombasa", "Kwale", "Kilifi", "Tana River", "Lamu", "Taita-Taveta",
	"Garissa", "Wajir", "Mandera", "Marsabit", "Isiolo", "Meru",
	"Tharaka-Nithi", "Embu", "Kitui", "Machakos", "Makueni", "Nyandarua",
	"Nyeri", "Kirinyaga", "Murang'a", "Kiambu", "Turkana", "West Pokot",
	"Samburu", "Trans-Nzoia", "Uasin Gishu", "Elgeyo-Marakwet", "Nandi",
	"Baringo", "Laikipia", "Nakuru", "Narok", "Kajiado", "Kericho", "Bomet",
	"Kakamega", "Vihiga", "Bungoma", "Busia", "Siaya", "Kisumu", "Homa Bay",
	"Migori", "Kisii", "Nyamira", "Nairobi",
}

var countyIndex = func() map[string]struct{} {
	m := make(map[string]struct{}, len(KenyanCounties))
	for _, c := range KenyanCounties {
		m[strings.ToLower(c)] = struct{}{}
	}
	return m
}()

// IsKnownCounty проверяет название округа без учета регистра.
func IsKnownCounty(county string) bool {
	_, ok := countyIndex[strings.ToLower(strings.TrimSpace(county))]
	return ok
}
