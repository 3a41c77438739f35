package dataset

import "os"

func readFixture() (string, error) {
	b, err := os.ReadFile("testdata/matches.csv")
	return string(b), err
}
