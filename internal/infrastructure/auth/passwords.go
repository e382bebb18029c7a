package auth

// tempPasswordLength is long enough to resist guessing while staying easy
// to read out loud.
const tempPasswordLength = 12

// Passwords bundles the password operations the services need behind one
// value.
type Passwords struct{}

func NewPasswords() Passwords {
	return Passwords{}
}

func (Passwords) Hash(password string) (string, error) {
	return HashPassword(password)
}

func (Passwords) Check(hash, password string) bool {
	return CheckPassword(hash, password)
}

func (Passwords) Generate() (string, error) {
	return GenerateTempPassword(tempPasswordLength)
}
