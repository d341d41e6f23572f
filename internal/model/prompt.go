package model

// Prompt is fully determined by the retrieved context and the question;
// rendering it is deterministic so identical inputs always produce
// byte-identical output.
type Prompt struct {
	System   string `json:"system"`
	Context  string `json:"context"`
	Question string `json:"question"`
}

func (p Prompt) Render() string {
	return p.System + "\n\nCONTEXTO:\n" + p.Context + "\n\nPERGUNTA:\n" + p.Question + "\n"
}
