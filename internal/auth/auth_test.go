package auth

import "testing"

func TestStaticStoreVerify(t *testing.T) {
	hash, err := HashPassword("hunter2")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	store := NewStaticStore(map[string]string{"alex": hash})

	if !store.Verify("alex", "hunter2") {
		t.Error("correct password rejected")
	}
	if store.Verify("alex", "wrong") {
		t.Error("wrong password accepted")
	}
	if store.Verify("nobody", "hunter2") {
		t.Error("unknown user accepted")
	}
}

func TestStaticStoreEmpty(t *testing.T) {
	if !NewStaticStore(nil).Empty() {
		t.Error("nil map should be empty")
	}
	if NewStaticStore(map[string]string{"a": "x"}).Empty() {
		t.Error("populated store reported empty")
	}
}
