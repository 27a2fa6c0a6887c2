package distribution

import "context"

// Tag is a single name/value metadata pair attached to a transfer.
type Tag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// TransferInstruction describes a token transfer to be signed and submitted.
type TransferInstruction struct {
	Target   string `json:"target"`
	Quantity int64  `json:"qty"`
	Tags     []Tag  `json:"tags"`
}

// Tag returns the value of the named tag.
func (t TransferInstruction) Tag(name string) (string, bool) {
	for _, tag := range t.Tags {
		if tag.Name == name {
			return tag.Value, true
		}
	}
	return "", false
}

// Submitter hands transfers to the network. It returns an identifier for the
// submitted transfer.
type Submitter interface {
	Submit(ctx context.Context, instruction TransferInstruction) (string, error)
}

// Preparer is implemented by submitters that can do expensive work, such as
// signing, for a whole run before the first transfer is sent.
type Preparer interface {
	Prepare(ctx context.Context, instructions []TransferInstruction) error
}
