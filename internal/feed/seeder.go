package feed

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
)

// SeedPreset names a synthetic feed size.
type SeedPreset string

const (
	PresetSmall  SeedPreset = "small"
	PresetMedium SeedPreset = "medium"
	PresetLarge  SeedPreset = "large"
)

// Header is the first line of every feed.
const Header = "no,division,group,team,name,position"

// SeedShape is the size of a synthetic organization.
type SeedShape struct {
	Divisions         int
	GroupsPerDivision int
	TeamsPerGroup     int
	MembersPerTeam    int
}

// Rows returns how many employee rows the shape produces: every unit has a
// leader plus MembersPerTeam members per team.
func (s SeedShape) Rows() int {
	groups := s.Divisions * s.GroupsPerDivision
	teams := groups * s.TeamsPerGroup
	return s.Divisions + groups + teams*(1+s.MembersPerTeam)
}

// GetPresetShape returns the shape for a preset.
func GetPresetShape(preset SeedPreset) SeedShape {
	switch preset {
	case PresetSmall:
		return SeedShape{Divisions: 2, GroupsPerDivision: 2, TeamsPerGroup: 2, MembersPerTeam: 3}
	case PresetLarge:
		return SeedShape{Divisions: 8, GroupsPerDivision: 4, TeamsPerGroup: 4, MembersPerTeam: 10}
	default:
		return SeedShape{Divisions: 4, GroupsPerDivision: 3, TeamsPerGroup: 3, MembersPerTeam: 6}
	}
}

var (
	divisionNames = []string{"Sales", "Engineering", "Operations", "Finance", "Marketing", "Research", "Support", "Legal"}
	familyNames   = []string{"Kim", "Lee", "Park", "Choi", "Jung", "Kang", "Cho", "Yoon", "Jang", "Lim"}
	givenNames    = []string{"Minjun", "Seoyeon", "Jiho", "Hayoon", "Dohyun", "Jiwoo", "Yejun", "Sua", "Junseo", "Eunwoo"}
	memberTitles  = []string{"사원", "주임", "대리", "과장", "차장", "Engineer", "Analyst", ""}
)

// FeedSeeder writes synthetic feeds in the format the feed parser reads.
type FeedSeeder struct {
	rng *rand.Rand
}

// NewFeedSeeder returns a seeder; equal seeds give equal output.
func NewFeedSeeder(seed int64) *FeedSeeder {
	return &FeedSeeder{rng: rand.New(rand.NewSource(seed))}
}

// Write emits the header and one row per employee. Division, group and
// team leaders carry the positions the role classifier recognizes.
func (fs *FeedSeeder) Write(w io.Writer, shape SeedShape) (int, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintln(bw, Header); err != nil {
		return 0, err
	}

	n := 0
	row := func(division, group, team, position string) error {
		n++
		_, err := fmt.Fprintf(bw, "%d,%s,%s,%s,%s,%s\n", n, division, group, team, fs.name(), position)
		return err
	}

	for d := 0; d < shape.Divisions; d++ {
		division := divisionNames[d%len(divisionNames)]
		if d >= len(divisionNames) {
			division = fmt.Sprintf("%s %d", division, d/len(divisionNames)+1)
		}
		if err := row(division, "", "", "부문리더"); err != nil {
			return n, err
		}
		for g := 1; g <= shape.GroupsPerDivision; g++ {
			group := fmt.Sprintf("%s G%d", division, g)
			if err := row(division, group, "", "그룹리더"); err != nil {
				return n, err
			}
			for t := 1; t <= shape.TeamsPerGroup; t++ {
				team := fmt.Sprintf("%s T%d", group, t)
				if err := row(division, group, team, "팀리더"); err != nil {
					return n, err
				}
				for m := 0; m < shape.MembersPerTeam; m++ {
					if err := row(division, group, team, memberTitles[fs.rng.Intn(len(memberTitles))]); err != nil {
						return n, err
					}
				}
			}
		}
	}
	return n, bw.Flush()
}

func (fs *FeedSeeder) name() string {
	return familyNames[fs.rng.Intn(len(familyNames))] + " " + givenNames[fs.rng.Intn(len(givenNames))]
}
