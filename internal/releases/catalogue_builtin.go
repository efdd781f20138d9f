package releases

import "time"

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

var builtinChannels = map[string]ChannelInfo{
	"1.0": {
		LaunchDate:   day(2016, time.June, 27),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-net-core-1-0/",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/net-core-1-0-and-1-1-will-reach-end-of-life-on-june-27-2019/",
	},
	"1.1": {
		LaunchDate:   day(2016, time.November, 16),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-net-core-1-1/",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/net-core-1-0-and-1-1-will-reach-end-of-life-on-june-27-2019/",
	},
	"2.0": {
		LaunchDate:   day(2017, time.August, 14),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-net-core-2-0/",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/net-core-2-0-will-reach-end-of-life-on-september-1-2018/",
	},
	"2.1": {
		LaunchDate:   day(2018, time.May, 30),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-net-core-2-1/",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/net-core-2-1-will-reach-end-of-support-on-august-21-2021/",
	},
	"2.2": {
		LaunchDate:   day(2018, time.December, 4),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-net-core-2-2",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/net-core-2-2-will-reach-end-of-life-on-december-23-2019/",
	},
	"3.0": {
		LaunchDate:   day(2019, time.September, 23),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-net-core-3-0/",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/net-core-3-0-end-of-life/",
	},
	"3.1": {
		LaunchDate:   day(2019, time.December, 3),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-net-core-3-1/",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/net-core-3-1-will-reach-end-of-support-on-december-13-2022/",
	},
	"5.0": {
		LaunchDate:   day(2020, time.November, 10),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-net-5-0/",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/dotnet-5-end-of-support-update/",
	},
	"6.0": {
		LaunchDate:   day(2021, time.November, 8),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-net-6/",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/dotnet-6-end-of-support/",
	},
	"7.0": {
		LaunchDate:   day(2022, time.November, 8),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-dotnet-7/",
		EndOfSupport: "https://devblogs.microsoft.com/dotnet/dotnet-7-end-of-support/",
	},
	"8.0": {
		LaunchDate:   day(2023, time.November, 14),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-dotnet-8/",
	},
	"9.0": {
		LaunchDate:   day(2024, time.November, 12),
		Announcement: "https://devblogs.microsoft.com/dotnet/announcing-dotnet-9/",
	},
}
