package methods

import "context"

// WalletHandler menangani redirect wallet (revolut, paypal). Tidak ada
// validasi di sistem ini: kontraknya "selalu sukses, referensi opaque".
type WalletHandler struct {
	Kind Method
}

func (h WalletHandler) Method() Method {
	return h.Kind
}

func (h WalletHandler) Execute(ctx context.Context, in Input) (Result, error) {
	return Result{Reference: newReference(h.Kind, in.PayrollID)}, nil
}
