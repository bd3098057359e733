package keyedit

import "fmt"

// VerifySummary aggregates the outcome of a check-all-keysigs walk.
type VerifySummary struct {
	Bad         int
	NoKey       int
	Other       int
	MissingSelf int
	Lines       []string
}

// AnyError reports whether any counter is nonzero, the boolean the
// source returns from check_all_keysigs.
func (s VerifySummary) AnyError() bool {
	return s.Bad != 0 || s.NoKey != 0 || s.Other != 0 || s.MissingSelf != 0
}

const markerLineMax = 40

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// CheckAllKeySigs walks the keyblock, classifies each certifying
// signature under a visible uid via the crypto collaborator, and
// reports per-signature outcomes plus aggregate counts. When
// onlySelected is true, uids without SEL_UID are skipped entirely.
func CheckAllKeySigs(k *Keyblock, crypto CryptoEngine, onlySelected bool) VerifySummary {
	var sum VerifySummary
	primary := k.Primary()
	var primaryKey *KeyData
	if primary != nil {
		primaryKey = primary.Packet.Key
	}

	var currentUID *Node
	hasValidSelfSig := false
	sawUID := false

	finishUID := func() {
		if sawUID && !hasValidSelfSig {
			sum.MissingSelf++
		}
	}

	k.store.Walk(func(n *Node) bool {
		switch n.Packet.Kind {
		case KindUserID:
			if onlySelected && !n.Has(FlagSelUID) {
				currentUID = nil
				return true
			}
			finishUID()
			sawUID = true
			hasValidSelfSig = false
			currentUID = n
			sum.Lines = append(sum.Lines, fmt.Sprintf("uid  %s", string(n.Packet.UserID.Name)))
		case KindSignature:
			if currentUID == nil || n.Packet.Signature == nil {
				return true
			}
			class := ClassifySignature(n.Packet.Signature, primaryKey, currentUID)
			if class != ClassSelfSig && class != ClassCertification {
				return true
			}
			outcome, detail := crypto.CheckKeySignature(k, n)
			isSelf := class == ClassSelfSig
			switch outcome {
			case VerifyOK:
				n.SetSigResult(0)
				sum.Lines = append(sum.Lines, selfOrSigLine(n, isSelf, "!", ""))
				if isSelf {
					hasValidSelfSig = true
				}
			case VerifyBad:
				n.SetSigResult(FlagBadSig)
				sum.Bad++
				sum.Lines = append(sum.Lines, selfOrSigLine(n, isSelf, "-", ""))
			case VerifyNoKey:
				n.SetSigResult(FlagNoKey)
				sum.NoKey++
				sum.Lines = append(sum.Lines, "sig? [User ID not found]")
			default:
				n.SetSigResult(FlagSigErr)
				sum.Other++
				sum.Lines = append(sum.Lines, selfOrSigLine(n, isSelf, "%", detail))
			}
		}
		return true
	})
	finishUID()
	return sum
}

func selfOrSigLine(n *Node, isSelf bool, marker, detail string) string {
	if isSelf {
		return fmt.Sprintf("sig%s [self-signature]", marker)
	}
	name := fmt.Sprintf("%016X", n.Packet.Signature.SignerKeyID)
	line := fmt.Sprintf("sig%s %s", marker, truncate(name, markerLineMax))
	if detail != "" {
		line += " (" + detail + ")"
	}
	return line
}
