package track

import "github.com/bcdxn/f1strategy/internal/domain"

// catalog holds the built-in circuit parameters for the current calendar.
// Starting fuel defaults to the regulation maximum; override per session when
// the team under-fuels.
var catalog = []Circuit{
	{
		Key: "Bahrain",
		Config: domain.RaceConfig{
			TrackName:         "Bahrain International Circuit",
			Laps:              57,
			BaseLapTime:       93.0,
			TrackTemp:         32.0,
			TrackAbrasiveness: 1.2,
			PitLossTime:       22.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingEasy,
		DRSZones:             2,
	},
	{
		Key: "Saudi Arabia",
		Config: domain.RaceConfig{
			TrackName:         "Jeddah Corniche Circuit",
			Laps:              50,
			BaseLapTime:       90.0,
			TrackTemp:         28.0,
			TrackAbrasiveness: 0.9,
			PitLossTime:       23.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             3,
	},
	{
		Key: "Australia",
		Config: domain.RaceConfig{
			TrackName:         "Albert Park Circuit",
			Laps:              58,
			BaseLapTime:       80.0,
			TrackTemp:         25.0,
			TrackAbrasiveness: 1.0,
			PitLossTime:       22.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             2,
	},
	{
		Key: "Japan",
		Config: domain.RaceConfig{
			TrackName:         "Suzuka International Racing Course",
			Laps:              53,
			BaseLapTime:       91.0,
			TrackTemp:         22.0,
			TrackAbrasiveness: 1.1,
			PitLossTime:       21.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             2,
	},
	{
		Key: "China",
		Config: domain.RaceConfig{
			TrackName:         "Shanghai International Circuit",
			Laps:              56,
			BaseLapTime:       94.0,
			TrackTemp:         20.0,
			TrackAbrasiveness: 1.0,
			PitLossTime:       22.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingEasy,
		DRSZones:             2,
	},
	{
		Key: "Miami",
		Config: domain.RaceConfig{
			TrackName:         "Miami International Autodrome",
			Laps:              57,
			BaseLapTime:       90.0,
			TrackTemp:         30.0,
			TrackAbrasiveness: 1.3,
			PitLossTime:       23.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             3,
	},
	{
		Key: "Imola",
		Config: domain.RaceConfig{
			TrackName:         "Autodromo Enzo e Dino Ferrari",
			Laps:              63,
			BaseLapTime:       77.0,
			TrackTemp:         24.0,
			TrackAbrasiveness: 0.9,
			PitLossTime:       21.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingHard,
		DRSZones:             2,
	},
	{
		Key: "Monaco",
		Config: domain.RaceConfig{
			TrackName:         "Circuit de Monaco",
			Laps:              78,
			BaseLapTime:       72.0,
			TrackTemp:         22.0,
			TrackAbrasiveness: 0.8,
			PitLossTime:       25.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingHard,
		DRSZones:             1,
	},
	{
		Key: "Canada",
		Config: domain.RaceConfig{
			TrackName:         "Circuit Gilles Villeneuve",
			Laps:              70,
			BaseLapTime:       73.0,
			TrackTemp:         20.0,
			TrackAbrasiveness: 0.9,
			PitLossTime:       21.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingEasy,
		DRSZones:             2,
	},
	{
		Key: "Spain",
		Config: domain.RaceConfig{
			TrackName:         "Circuit de Barcelona-Catalunya",
			Laps:              66,
			BaseLapTime:       78.0,
			TrackTemp:         28.0,
			TrackAbrasiveness: 1.2,
			PitLossTime:       21.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             2,
	},
	{
		Key: "Austria",
		Config: domain.RaceConfig{
			TrackName:         "Red Bull Ring",
			Laps:              71,
			BaseLapTime:       65.0,
			TrackTemp:         24.0,
			TrackAbrasiveness: 1.0,
			PitLossTime:       20.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingEasy,
		DRSZones:             3,
	},
	{
		Key: "Great Britain",
		Config: domain.RaceConfig{
			TrackName:         "Silverstone Circuit",
			Laps:              52,
			BaseLapTime:       87.0,
			TrackTemp:         20.0,
			TrackAbrasiveness: 1.1,
			PitLossTime:       21.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             2,
	},
	{
		Key: "Hungary",
		Config: domain.RaceConfig{
			TrackName:         "Hungaroring",
			Laps:              70,
			BaseLapTime:       77.0,
			TrackTemp:         32.0,
			TrackAbrasiveness: 1.0,
			PitLossTime:       22.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingHard,
		DRSZones:             2,
	},
	{
		Key: "Belgium",
		Config: domain.RaceConfig{
			TrackName:         "Circuit de Spa-Francorchamps",
			Laps:              44,
			BaseLapTime:       105.0,
			TrackTemp:         18.0,
			TrackAbrasiveness: 0.9,
			PitLossTime:       20.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingEasy,
		DRSZones:             2,
	},
	{
		Key: "Netherlands",
		Config: domain.RaceConfig{
			TrackName:         "Circuit Zandvoort",
			Laps:              72,
			BaseLapTime:       71.0,
			TrackTemp:         20.0,
			TrackAbrasiveness: 1.0,
			PitLossTime:       21.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingHard,
		DRSZones:             2,
	},
	{
		Key: "Italy",
		Config: domain.RaceConfig{
			TrackName:         "Autodromo Nazionale di Monza",
			Laps:              53,
			BaseLapTime:       81.0,
			TrackTemp:         28.0,
			TrackAbrasiveness: 0.7,
			PitLossTime:       20.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingEasy,
		DRSZones:             2,
	},
	{
		Key: "Azerbaijan",
		Config: domain.RaceConfig{
			TrackName:         "Baku City Circuit",
			Laps:              51,
			BaseLapTime:       103.0,
			TrackTemp:         30.0,
			TrackAbrasiveness: 0.8,
			PitLossTime:       23.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingEasy,
		DRSZones:             2,
	},
	{
		Key: "Singapore",
		Config: domain.RaceConfig{
			TrackName:         "Marina Bay Street Circuit",
			Laps:              62,
			BaseLapTime:       100.0,
			TrackTemp:         30.0,
			TrackAbrasiveness: 1.3,
			PitLossTime:       24.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingHard,
		DRSZones:             3,
	},
	{
		Key: "United States",
		Config: domain.RaceConfig{
			TrackName:         "Circuit of the Americas",
			Laps:              56,
			BaseLapTime:       96.0,
			TrackTemp:         26.0,
			TrackAbrasiveness: 1.1,
			PitLossTime:       22.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             2,
	},
	{
		Key: "Mexico",
		Config: domain.RaceConfig{
			TrackName:         "Autodromo Hermanos Rodriguez",
			Laps:              71,
			BaseLapTime:       77.0,
			TrackTemp:         24.0,
			TrackAbrasiveness: 1.0,
			PitLossTime:       21.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingEasy,
		DRSZones:             3,
	},
	{
		Key: "Brazil",
		Config: domain.RaceConfig{
			TrackName:         "Autodromo Jose Carlos Pace (Interlagos)",
			Laps:              71,
			BaseLapTime:       70.0,
			TrackTemp:         26.0,
			TrackAbrasiveness: 1.0,
			PitLossTime:       20.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             2,
	},
	{
		Key: "Las Vegas",
		Config: domain.RaceConfig{
			TrackName:         "Las Vegas Street Circuit",
			Laps:              50,
			BaseLapTime:       96.0,
			TrackTemp:         15.0,
			TrackAbrasiveness: 0.8,
			PitLossTime:       23.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingEasy,
		DRSZones:             2,
	},
	{
		Key: "Qatar",
		Config: domain.RaceConfig{
			TrackName:         "Lusail International Circuit",
			Laps:              57,
			BaseLapTime:       84.0,
			TrackTemp:         28.0,
			TrackAbrasiveness: 1.1,
			PitLossTime:       22.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             2,
	},
	{
		Key: "Abu Dhabi",
		Config: domain.RaceConfig{
			TrackName:         "Yas Marina Circuit",
			Laps:              58,
			BaseLapTime:       86.0,
			TrackTemp:         30.0,
			TrackAbrasiveness: 1.0,
			PitLossTime:       22.0,
			InitialFuel:       110.0,
		},
		OvertakingDifficulty: overtakingMedium,
		DRSZones:             2,
	},
}
