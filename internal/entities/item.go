package entities

// Item is a static catalog entry purchasable with tokens
type Item struct {
	Name          string `json:"name"`
	Cost          int    `json:"cost"`
	Effect        string `json:"effect"`
	LevelRequired int    `json:"level_required"`
}

// Potion healing amounts by catalog name
var PotionHealing = map[string]int{
	"small potion":  10,
	"medium potion": 20,
	"large potion":  30,
}
