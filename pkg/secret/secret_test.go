package secret

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("123456")
	if err != nil {
		t.Fatal(err)
	}
	if hash == "123456" {
		t.Fatal("hash must not equal plain text")
	}
	if !Verify("123456", hash) {
		t.Error("expected matching code to verify")
	}
	if Verify("654321", hash) {
		t.Error("expected wrong code to fail")
	}
	if Verify("123456", "not-a-hash") {
		t.Error("expected malformed hash to fail")
	}
}
