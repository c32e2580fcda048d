package methods

import "context"

// BankTransferHandler tidak memvalidasi field tambahan; transfer bank
// selalu berakhir di jalur asynchronous menunggu konfirmasi masuk.
type BankTransferHandler struct{}

func (BankTransferHandler) Method() Method {
	return MethodBankTransfer
}

func (BankTransferHandler) Execute(ctx context.Context, in Input) (Result, error) {
	return Result{
		Reference: newReference(MethodBankTransfer, in.PayrollID),
		Async:     true,
	}, nil
}
