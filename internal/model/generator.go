package model

// GenerateRequest represents a password generation request.
// Pointer bools allow distinguishing between missing (nil -> default true) and explicit false.
type GenerateRequest struct {
	Length         int   `json:"length"`
	Uppercase      *bool `json:"uppercase"`
	Lowercase      *bool `json:"lowercase"`
	Numbers        *bool `json:"numbers"`
	Symbols        *bool `json:"symbols"`
	AvoidAmbiguous bool  `json:"avoid_ambiguous"`
}

// GenerateResponse carries the generated password and a summary of its strength.
type GenerateResponse struct {
	Password          string  `json:"password"`
	Length            int     `json:"length"`
	StrengthScore     int     `json:"strength_score"`
	StrengthRating    Rating  `json:"strength_rating"`
	EntropyBits       float64 `json:"entropy_bits"`
	CharacterPoolSize int     `json:"character_pool_size"`
}
